package models

import "time"

// Role codes carried by seed data. Authorization decisions test membership
// in a role-code set, never role rows themselves.
const (
	RoleCodeSuper = "R_SUPER"
	RoleCodeAdmin = "R_ADMIN"
	RoleCodeUser  = "R_USER"
)

// Role is a named permission grouping linked to menus and buttons.
type Role struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id"`
	RoleName   string     `gorm:"column:role_name;uniqueIndex" json:"roleName"`
	RoleCode   string     `gorm:"column:role_code;uniqueIndex" json:"roleCode"`
	RoleDesc   *string    `gorm:"column:role_desc" json:"roleDesc"`
	RoleHome   string     `gorm:"column:role_home" json:"roleHome"`
	Status     StatusType `gorm:"column:status" json:"status"`
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time  `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Role) TableName() string { return "roles" }

// RoleMenu links roles to menus.
type RoleMenu struct {
	RoleID int64 `gorm:"column:roles_id;primaryKey"`
	MenuID int64 `gorm:"column:menu_id;primaryKey"`
}

func (RoleMenu) TableName() string { return "roles_menus" }

// RoleButton links roles to buttons.
type RoleButton struct {
	RoleID   int64 `gorm:"column:roles_id;primaryKey"`
	ButtonID int64 `gorm:"column:button_id;primaryKey"`
}

func (RoleButton) TableName() string { return "roles_buttons" }
