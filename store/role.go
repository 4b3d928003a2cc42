package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/models"
)

// RoleStore administers roles and their menu/button links.
type RoleStore struct {
	DB *gorm.DB
}

func NewRoleStore(db *gorm.DB) *RoleStore { return &RoleStore{DB: db} }

// RoleSearchParams are the enumerated role list filters.
type RoleSearchParams struct {
	RoleName string `form:"roleName"`
	RoleCode string `form:"roleCode"`
	Status   string `form:"status"`
	Page
}

func (s *RoleStore) Search(ctx context.Context, params RoleSearchParams) ([]models.Role, int64, error) {
	page := params.Page.Normalized()
	scope := func(db *gorm.DB) *gorm.DB {
		if params.RoleName != "" {
			db = db.Where("role_name LIKE ?", contains(params.RoleName))
		}
		if params.RoleCode != "" {
			db = db.Where("role_code LIKE ?", contains(params.RoleCode))
		}
		if params.Status != "" {
			db = db.Where("status = ?", params.Status)
		}
		return db
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Role{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var roles []models.Role
	err := s.DB.WithContext(ctx).Model(&models.Role{}).Scopes(scope).
		Order("id DESC").
		Offset(page.offset()).Limit(page.Size).
		Find(&roles).Error
	return roles, total, err
}

// All returns every role, for assignment pickers.
func (s *RoleStore) All(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.DB.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (s *RoleStore) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	err := s.DB.WithContext(ctx).First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleStore) GetByCode(ctx context.Context, code string) (*models.Role, error) {
	var role models.Role
	err := s.DB.WithContext(ctx).Where("role_code = ?", code).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleStore) Create(ctx context.Context, role *models.Role) error {
	if role.RoleHome == "" {
		role.RoleHome = "home"
	}
	if role.Status == "" {
		role.Status = models.StatusEnable
	}
	return s.DB.WithContext(ctx).Create(role).Error
}

func (s *RoleStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Role{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RoleStore) Delete(ctx context.Context, id int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roles_id = ?", id).Delete(&models.RoleMenu{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roles_id = ?", id).Delete(&models.RoleButton{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *RoleStore) BatchDelete(ctx context.Context, ids []int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roles_id IN ?", ids).Delete(&models.RoleMenu{}).Error; err != nil {
			return err
		}
		if err := tx.Where("roles_id IN ?", ids).Delete(&models.RoleButton{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id IN ?", ids).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, ids).Error
	})
}

// MenuIDs returns the menu ids linked to a role.
func (s *RoleStore) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := s.DB.WithContext(ctx).Model(&models.RoleMenu{}).
		Where("roles_id = ?", roleID).
		Order("menu_id ASC").
		Pluck("menu_id", &ids).Error
	return ids, err
}

// SetMenus replaces a role's menu links.
func (s *RoleStore) SetMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("roles_id = ?", roleID).Delete(&models.RoleMenu{}).Error; err != nil {
			return err
		}
		for _, menuID := range menuIDs {
			var menu models.Menu
			if err := tx.First(&menu, menuID).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.RoleMenu{RoleID: roleID, MenuID: menuID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ButtonCodes returns the button codes linked to a role.
func (s *RoleStore) ButtonCodes(ctx context.Context, roleID int64) ([]string, error) {
	var codes []string
	err := s.DB.WithContext(ctx).Model(&models.Button{}).
		Joins("JOIN roles_buttons ON roles_buttons.button_id = buttons.id").
		Where("roles_buttons.roles_id = ?", roleID).
		Order("buttons.button_code ASC").
		Pluck("buttons.button_code", &codes).Error
	return codes, err
}

// SetButtons replaces a role's button links, addressed by button code.
func (s *RoleStore) SetButtons(ctx context.Context, roleID int64, buttonCodes []string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("roles_id = ?", roleID).Delete(&models.RoleButton{}).Error; err != nil {
			return err
		}
		for _, code := range buttonCodes {
			var button models.Button
			if err := tx.Where("button_code = ?", code).First(&button).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.RoleButton{RoleID: roleID, ButtonID: button.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
