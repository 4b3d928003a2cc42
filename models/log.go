package models

import (
	"encoding/json"
	"time"
)

// LogType is the coarse audit-log category.
type LogType string

const (
	LogTypeAPI    LogType = "1"
	LogTypeUser   LogType = "2"
	LogTypeAdmin  LogType = "3"
	LogTypeSystem LogType = "4"
)

// LogDetail is a four-digit event-type code. Ranges follow the seed data:
// 11xx system, 12xx auth, 14xx menus, 15xx roles, 16xx users.
type LogDetail string

const (
	LogSystemStart LogDetail = "1101"
	LogSystemStop  LogDetail = "1102"

	LogUserLoginSuccess  LogDetail = "1201"
	LogUserRefreshToken  LogDetail = "1202"
	LogUserGetUserInfo   LogDetail = "1203"
	LogUserLoginBadName  LogDetail = "1211"
	LogUserLoginBadPass  LogDetail = "1212"
	LogUserLoginForbid   LogDetail = "1213"
	LogUserLogout        LogDetail = "1214"

	LogMenuGetList     LogDetail = "1401"
	LogMenuGetTree     LogDetail = "1402"
	LogMenuGetPages    LogDetail = "1403"
	LogMenuButtonsTree LogDetail = "1404"
	LogMenuGetOne      LogDetail = "1411"
	LogMenuCreateOne   LogDetail = "1412"
	LogMenuUpdateOne   LogDetail = "1413"
	LogMenuDeleteOne   LogDetail = "1414"
	LogMenuBatchDelete LogDetail = "1415"

	LogRoleGetList       LogDetail = "1501"
	LogRoleGetMenus      LogDetail = "1502"
	LogRoleUpdateMenus   LogDetail = "1503"
	LogRoleGetButtons    LogDetail = "1504"
	LogRoleUpdateButtons LogDetail = "1505"
	LogRoleGetOne        LogDetail = "1511"
	LogRoleCreateOne     LogDetail = "1512"
	LogRoleUpdateOne     LogDetail = "1513"
	LogRoleDeleteOne     LogDetail = "1514"
	LogRoleBatchDelete   LogDetail = "1515"

	LogUserGetList     LogDetail = "1601"
	LogUserGetOne      LogDetail = "1611"
	LogUserCreateOne   LogDetail = "1612"
	LogUserUpdateOne   LogDetail = "1613"
	LogUserDeleteOne   LogDetail = "1614"
	LogUserBatchDelete LogDetail = "1615"
)

// Log is an append-only audit entry. ByUserID is nil for unauthenticated
// events such as system start.
type Log struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id"`
	LogType       LogType   `gorm:"column:log_type" json:"logType"`
	LogDetailType LogDetail `gorm:"column:log_detail_type" json:"logDetailType"`
	ByUserID      *int64    `gorm:"column:by_user_id" json:"-"`
	CreateTime    time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
}

func (Log) TableName() string { return "logs" }

// APILog captures one HTTP request/response pair, written by the request
// logging middleware.
type APILog struct {
	ID            int64           `gorm:"column:id;primaryKey" json:"id"`
	IPAddress     string          `gorm:"column:ip_address" json:"ipAddress"`
	UserAgent     string          `gorm:"column:user_agent" json:"userAgent"`
	RequestURL    string          `gorm:"column:request_url" json:"requestUrl"`
	RequestParams json.RawMessage `gorm:"column:request_params" json:"requestParams"`
	RequestData   json.RawMessage `gorm:"column:request_data" json:"requestData"`
	ResponseCode  string          `gorm:"column:response_code" json:"responseCode"`
	CreateTime    time.Time       `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	ProcessTime   float64         `gorm:"column:process_time" json:"processTime"`
}

func (APILog) TableName() string { return "api_logs" }
