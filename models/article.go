package models

import "time"

// Article is an owned content record subject to scoped listing: callers
// without an admin role only ever see their own rows.
type Article struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;uniqueIndex" json:"slug"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Body        string    `gorm:"column:body" json:"body"`
	AuthorID    int64     `gorm:"column:author_id" json:"-"`
	CreateTime  time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime  time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Article) TableName() string { return "articles" }
