package models

import (
	"encoding/json"
	"time"
)

// Menu is a navigation node consumed by the admin front end. Catalogs group
// child menus; menus map to routable components.
type Menu struct {
	ID              int64           `gorm:"column:id;primaryKey" json:"id"`
	MenuName        string          `gorm:"column:menu_name" json:"menuName"`
	MenuType        MenuType        `gorm:"column:menu_type" json:"menuType"`
	RouteName       string          `gorm:"column:route_name" json:"routeName"`
	RoutePath       string          `gorm:"column:route_path" json:"routePath"`
	PathParam       *string         `gorm:"column:path_param" json:"pathParam"`
	RouteParam      json.RawMessage `gorm:"column:route_param" json:"routeParam"`
	Order           int             `gorm:"column:\"order\"" json:"order"`
	Component       *string         `gorm:"column:component" json:"component"`
	ParentID        int64           `gorm:"column:parent_id" json:"parentId"`
	I18nKey         string          `gorm:"column:i18n_key" json:"i18nKey"`
	Icon            *string         `gorm:"column:icon" json:"icon"`
	IconType        *IconType       `gorm:"column:icon_type" json:"iconType"`
	Href            *string         `gorm:"column:href" json:"href"`
	MultiTab        bool            `gorm:"column:multi_tab" json:"multiTab"`
	KeepAlive       bool            `gorm:"column:keep_alive" json:"keepAlive"`
	HideInMenu      bool            `gorm:"column:hide_in_menu" json:"hideInMenu"`
	ActiveMenu      *string         `gorm:"column:active_menu" json:"activeMenu"`
	FixedIndexInTab *int            `gorm:"column:fixed_index_in_tab" json:"fixedIndexInTab"`
	Status          StatusType      `gorm:"column:status" json:"status"`
	Redirect        *string         `gorm:"column:redirect" json:"redirect"`
	Props           bool            `gorm:"column:props" json:"props"`
	Constant        bool            `gorm:"column:constant" json:"constant"`
	CreateTime      time.Time       `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime      time.Time       `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Menu) TableName() string { return "menus" }

// MenuTree is a Menu with resolved children, assembled in Go from parent_id.
type MenuTree struct {
	Menu
	Children []*MenuTree `json:"children,omitempty"`
}

// Button is a fine-grained UI permission attached to menus and roles.
type Button struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id"`
	ButtonCode string     `gorm:"column:button_code" json:"buttonCode"`
	ButtonDesc string     `gorm:"column:button_desc" json:"buttonDesc"`
	Status     StatusType `gorm:"column:status" json:"status"`
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time  `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Button) TableName() string { return "buttons" }

// MenuButton links menus to buttons.
type MenuButton struct {
	MenuID   int64 `gorm:"column:menus_id;primaryKey"`
	ButtonID int64 `gorm:"column:button_id;primaryKey"`
}

func (MenuButton) TableName() string { return "menus_buttons" }
