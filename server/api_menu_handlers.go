package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

// HandleListMenus pages through top-level menus with their subtrees attached.
func (s *Server) HandleListMenus(c *gin.Context) {
	var page store.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid query parameters")
		return
	}
	records, total, err := s.Menus.List(c.Request.Context(), page)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuGetList)
	page = page.Normalized()
	okList(c, records, total, page.Current, page.Size)
}

func (s *Server) HandleMenuTree(c *gin.Context) {
	tree, err := s.Menus.Tree(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuGetTree)
	ok(c, tree)
}

// HandleMenuPages returns the route names of all routable menus.
func (s *Server) HandleMenuPages(c *gin.Context) {
	pages, err := s.Menus.Pages(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuGetPages)
	ok(c, pages)
}

func (s *Server) HandleMenuButtonsTree(c *gin.Context) {
	tree, err := s.Menus.ButtonsTree(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuButtonsTree)
	ok(c, tree)
}

func (s *Server) HandleGetMenu(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid menu id")
		return
	}
	menu, err := s.Menus.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuGetOne)
	ok(c, menu)
}

type menuPayload struct {
	MenuName        string          `json:"menuName" binding:"required"`
	MenuType        string          `json:"menuType" binding:"required"`
	RouteName       string          `json:"routeName"`
	RoutePath       string          `json:"routePath"`
	PathParam       *string         `json:"pathParam"`
	RouteParam      json.RawMessage `json:"routeParam"`
	Order           int             `json:"order"`
	Component       *string         `json:"component"`
	ParentID        int64           `json:"parentId"`
	I18nKey         string          `json:"i18nKey"`
	Icon            *string         `json:"icon"`
	IconType        *string         `json:"iconType"`
	Href            *string         `json:"href"`
	MultiTab        bool            `json:"multiTab"`
	KeepAlive       bool            `json:"keepAlive"`
	HideInMenu      bool            `json:"hideInMenu"`
	ActiveMenu      *string         `json:"activeMenu"`
	FixedIndexInTab *int            `json:"fixedIndexInTab"`
	Status          string          `json:"status"`
	Redirect        *string         `json:"redirect"`
	Props           bool            `json:"props"`
	Constant        bool            `json:"constant"`
}

func (p menuPayload) toModel() *models.Menu {
	menu := &models.Menu{
		MenuName:        p.MenuName,
		MenuType:        models.MenuType(p.MenuType),
		RouteName:       p.RouteName,
		RoutePath:       p.RoutePath,
		PathParam:       p.PathParam,
		RouteParam:      p.RouteParam,
		Order:           p.Order,
		Component:       p.Component,
		ParentID:        p.ParentID,
		I18nKey:         p.I18nKey,
		Icon:            p.Icon,
		Href:            p.Href,
		MultiTab:        p.MultiTab,
		KeepAlive:       p.KeepAlive,
		HideInMenu:      p.HideInMenu,
		ActiveMenu:      p.ActiveMenu,
		FixedIndexInTab: p.FixedIndexInTab,
		Status:          models.StatusType(p.Status),
		Redirect:        p.Redirect,
		Props:           p.Props,
		Constant:        p.Constant,
	}
	if p.IconType != nil {
		iconType := models.IconType(*p.IconType)
		menu.IconType = &iconType
	}
	if menu.Status == "" {
		menu.Status = models.StatusEnable
	}
	return menu
}

func (s *Server) HandleCreateMenu(c *gin.Context) {
	var payload menuPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "menuName and menuType are required")
		return
	}
	menu := payload.toModel()
	if err := s.Menus.Create(c.Request.Context(), menu); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuCreateOne)
	ok(c, gin.H{"id": menu.ID})
}

// HandleUpdateMenu replaces the full menu record under the given id.
// Menu edits always come from the full edit form, so a whole-record write
// keeps the handler simpler than per-field patching.
func (s *Server) HandleUpdateMenu(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid menu id")
		return
	}
	var payload menuPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "menuName and menuType are required")
		return
	}
	menu := payload.toModel()
	updates := map[string]interface{}{
		"menu_name":          menu.MenuName,
		"menu_type":          menu.MenuType,
		"route_name":         menu.RouteName,
		"route_path":         menu.RoutePath,
		"path_param":         menu.PathParam,
		"route_param":        menu.RouteParam,
		"\"order\"":          menu.Order,
		"component":          menu.Component,
		"parent_id":          menu.ParentID,
		"i18n_key":           menu.I18nKey,
		"icon":               menu.Icon,
		"icon_type":          menu.IconType,
		"href":               menu.Href,
		"multi_tab":          menu.MultiTab,
		"keep_alive":         menu.KeepAlive,
		"hide_in_menu":       menu.HideInMenu,
		"active_menu":        menu.ActiveMenu,
		"fixed_index_in_tab": menu.FixedIndexInTab,
		"status":             menu.Status,
		"redirect":           menu.Redirect,
		"props":              menu.Props,
		"constant":           menu.Constant,
	}
	if err := s.Menus.Update(c.Request.Context(), id, updates); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuUpdateOne)
	ok(c, nil)
}

// HandleDeleteMenu removes the menu and its whole subtree.
func (s *Server) HandleDeleteMenu(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid menu id")
		return
	}
	if err := s.Menus.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuDeleteOne)
	ok(c, gin.H{"deletedId": id})
}

func (s *Server) HandleBatchDeleteMenus(c *gin.Context) {
	ids, err := queryIDs(c)
	if err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "ids must be comma-separated integers")
		return
	}
	if err := s.Menus.BatchDelete(c.Request.Context(), ids); err != nil {
		failErr(c, err)
		return
	}
	s.audit(c, models.LogMenuBatchDelete)
	ok(c, gin.H{"deletedIds": ids})
}
