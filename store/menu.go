package store

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/models"
)

// MenuStore administers the navigation menu catalog and its buttons.
type MenuStore struct {
	DB *gorm.DB
}

func NewMenuStore(db *gorm.DB) *MenuStore { return &MenuStore{DB: db} }

// List returns top-level menus with their children resolved, paginated over
// the top level only.
func (s *MenuStore) List(ctx context.Context, page Page) ([]*models.MenuTree, int64, error) {
	page = page.Normalized()

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Menu{}).
		Where("constant = ?", false).Where("parent_id = ?", 0).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roots []models.Menu
	if err := s.DB.WithContext(ctx).
		Where("constant = ?", false).Where("parent_id = ?", 0).
		Order("\"order\" ASC, id ASC").
		Offset(page.offset()).Limit(page.Size).
		Find(&roots).Error; err != nil {
		return nil, 0, err
	}

	var rest []models.Menu
	if err := s.DB.WithContext(ctx).
		Where("constant = ?", false).Where("parent_id <> ?", 0).
		Order("\"order\" ASC, id ASC").
		Find(&rest).Error; err != nil {
		return nil, 0, err
	}

	return buildTree(roots, rest), total, nil
}

// Tree returns the full non-constant menu hierarchy.
func (s *MenuStore) Tree(ctx context.Context) ([]*models.MenuTree, error) {
	var all []models.Menu
	if err := s.DB.WithContext(ctx).
		Where("constant = ?", false).
		Order("\"order\" ASC, id ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	var roots, rest []models.Menu
	for _, m := range all {
		if m.ParentID == 0 {
			roots = append(roots, m)
		} else {
			rest = append(rest, m)
		}
	}
	return buildTree(roots, rest), nil
}

// buildTree links children to parents by parent_id, preserving order.
func buildTree(roots, rest []models.Menu) []*models.MenuTree {
	nodes := make(map[int64]*models.MenuTree, len(roots)+len(rest))
	out := make([]*models.MenuTree, 0, len(roots))
	for _, m := range roots {
		node := &models.MenuTree{Menu: m}
		nodes[m.ID] = node
		out = append(out, node)
	}
	for _, m := range rest {
		nodes[m.ID] = &models.MenuTree{Menu: m}
	}
	for _, m := range rest {
		if parent, ok := nodes[m.ParentID]; ok {
			parent.Children = append(parent.Children, nodes[m.ID])
		}
	}
	for _, node := range nodes {
		sort.SliceStable(node.Children, func(i, j int) bool {
			if node.Children[i].Order != node.Children[j].Order {
				return node.Children[i].Order < node.Children[j].Order
			}
			return node.Children[i].ID < node.Children[j].ID
		})
	}
	return out
}

// Pages returns the route names of all routable menus.
func (s *MenuStore) Pages(ctx context.Context) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).Model(&models.Menu{}).
		Where("menu_type = ?", models.MenuMenu).
		Order("route_name ASC").
		Pluck("route_name", &names).Error
	return names, err
}

func (s *MenuStore) GetByID(ctx context.Context, id int64) (*models.Menu, error) {
	var menu models.Menu
	err := s.DB.WithContext(ctx).First(&menu, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *MenuStore) Create(ctx context.Context, menu *models.Menu) error {
	if menu.Status == "" {
		menu.Status = models.StatusEnable
	}
	return s.DB.WithContext(ctx).Create(menu).Error
}

func (s *MenuStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Menu{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a menu, its descendants and their button links.
func (s *MenuStore) Delete(ctx context.Context, id int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.subtreeIDs(tx, id)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNotFound
		}
		if err := tx.Where("menus_id IN ?", ids).Delete(&models.MenuButton{}).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id IN ?", ids).Delete(&models.RoleMenu{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Menu{}, ids).Error
	})
}

func (s *MenuStore) BatchDelete(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// subtreeIDs collects a menu id plus all descendant ids.
func (s *MenuStore) subtreeIDs(tx *gorm.DB, rootID int64) ([]int64, error) {
	var exists int64
	if err := tx.Model(&models.Menu{}).Where("id = ?", rootID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, nil
	}
	out := []int64{rootID}
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		var children []int64
		if err := tx.Model(&models.Menu{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		out = append(out, children...)
		frontier = children
	}
	return out, nil
}

// MenuButtons groups a menu's route name with its attached buttons, for the
// buttons-tree endpoint.
type MenuButtons struct {
	MenuID    int64           `json:"menuId"`
	RouteName string          `json:"routeName"`
	Buttons   []models.Button `json:"buttons"`
}

// ButtonsTree lists every menu that has buttons, with the buttons attached.
func (s *MenuStore) ButtonsTree(ctx context.Context) ([]MenuButtons, error) {
	type linkRow struct {
		models.Button
		MenuID    int64  `gorm:"column:menu_id"`
		RouteName string `gorm:"column:route_name"`
	}
	var rows []linkRow
	err := s.DB.WithContext(ctx).Model(&models.Button{}).
		Select("buttons.*, menus.id AS menu_id, menus.route_name AS route_name").
		Joins("JOIN menus_buttons ON menus_buttons.button_id = buttons.id").
		Joins("JOIN menus ON menus.id = menus_buttons.menus_id").
		Order("menus.id ASC, buttons.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var out []MenuButtons
	index := map[int64]int{}
	for _, r := range rows {
		i, ok := index[r.MenuID]
		if !ok {
			i = len(out)
			index[r.MenuID] = i
			out = append(out, MenuButtons{MenuID: r.MenuID, RouteName: r.RouteName})
		}
		out[i].Buttons = append(out[i].Buttons, r.Button)
	}
	return out, nil
}
