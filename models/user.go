package models

import "time"

// User is a principal that can authenticate and own records.
// The password column holds a bcrypt hash, never plaintext.
type User struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id"`
	UserName   string     `gorm:"column:user_name;uniqueIndex" json:"userName"`
	Password   string     `gorm:"column:password" json:"-"`
	NickName   *string    `gorm:"column:nick_name" json:"nickName"`
	UserGender GenderType `gorm:"column:user_gender" json:"userGender"`
	UserEmail  string     `gorm:"column:user_email;uniqueIndex" json:"userEmail"`
	UserPhone  *string    `gorm:"column:user_phone" json:"userPhone"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"lastLogin"`
	Status     StatusType `gorm:"column:status" json:"status"`
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time  `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (User) TableName() string { return "users" }

// UserRole links users to roles.
type UserRole struct {
	UserID int64 `gorm:"column:users_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string { return "users_roles" }
