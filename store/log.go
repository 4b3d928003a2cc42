package store

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

// LogStore is the audit-log sink and the scoped log list backend.
type LogStore struct {
	DB *gorm.DB
}

func NewLogStore(db *gorm.DB) *LogStore { return &LogStore{DB: db} }

// Append writes one audit entry. It is best-effort: a failed insert is
// reported locally and never fails the caller's operation.
func (s *LogStore) Append(ctx context.Context, logType models.LogType, detail models.LogDetail, byUserID *int64) {
	entry := models.Log{LogType: logType, LogDetailType: detail, ByUserID: byUserID}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("audit: append %s/%s failed: %v", logType, detail, err)
	}
}

// AppendAPILog records one request/response pair from the logging middleware.
func (s *LogStore) AppendAPILog(ctx context.Context, entry *models.APILog) {
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("audit: api log for %s failed: %v", entry.RequestURL, err)
	}
}

// LogSearchParams are the enumerated log list filters.
type LogSearchParams struct {
	LogType       string `form:"logType"`
	LogDetailType string `form:"logDetailType"`
	UserName      string `form:"userName"`
	TimeRange     string `form:"timeRange"`
	Page
}

// LogWithUser is a log row joined with the acting user's name.
type LogWithUser struct {
	models.Log
	ByUser string `gorm:"column:by_user" json:"byUser"`
}

func (s *LogStore) searchScope(ctx context.Context, params LogSearchParams, viewer auth.Viewer) (func(*gorm.DB) *gorm.DB, error) {
	var actorID *int64
	if params.UserName != "" {
		var actor models.User
		err := s.DB.WithContext(ctx).Select("id").
			Where("user_name = ?", params.UserName).
			First(&actor).Error
		switch {
		case err == nil:
			actorID = &actor.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Same no-match-no-clause behavior as the article author filter.
		default:
			return nil, err
		}
	}

	var start, end time.Time
	hasRange := false
	if params.TimeRange != "" {
		var err error
		start, end, err = parseTimeRange(params.TimeRange)
		if err != nil {
			return nil, err
		}
		hasRange = true
	}

	return func(db *gorm.DB) *gorm.DB {
		if params.LogType != "" {
			db = db.Where("log_type = ?", params.LogType)
		}
		if params.LogDetailType != "" {
			db = db.Where("log_detail_type = ?", params.LogDetailType)
		}
		if actorID != nil {
			db = db.Where("by_user_id = ?", *actorID)
		}
		if hasRange {
			// Qualified so the clause survives the users join in Search.
			db = db.Where("logs.create_time >= ? AND logs.create_time <= ?", start, end)
		}
		if !viewer.Privileged() {
			db = db.Where("by_user_id = ?", viewer.UserID)
		}
		return db
	}, nil
}

// Search lists audit entries the viewer is authorized to see, newest first.
func (s *LogStore) Search(ctx context.Context, params LogSearchParams, viewer auth.Viewer) ([]LogWithUser, int64, error) {
	scope, err := s.searchScope(ctx, params, viewer)
	if err != nil {
		return nil, 0, err
	}
	page := params.Page.Normalized()

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Log{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LogWithUser
	err = s.DB.WithContext(ctx).Model(&models.Log{}).Scopes(scope).
		Select("logs.*, COALESCE(users.user_name, '') AS by_user").
		Joins("LEFT JOIN users ON users.id = logs.by_user_id").
		Order("logs.id DESC").
		Offset(page.offset()).Limit(page.Size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *LogStore) GetByID(ctx context.Context, id int64) (*LogWithUser, error) {
	var row LogWithUser
	err := s.DB.WithContext(ctx).Model(&models.Log{}).
		Select("logs.*, COALESCE(users.user_name, '') AS by_user").
		Joins("LEFT JOIN users ON users.id = logs.by_user_id").
		Where("logs.id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Update patches the classification columns of one entry.
func (s *LogStore) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Log{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LogStore) Delete(ctx context.Context, id int64) error {
	res := s.DB.WithContext(ctx).Delete(&models.Log{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LogStore) BatchDelete(ctx context.Context, ids []int64) error {
	return s.DB.WithContext(ctx).Delete(&models.Log{}, ids).Error
}
