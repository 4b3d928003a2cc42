package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

// ErrNotFound marks a missing record on id-addressed operations.
var ErrNotFound = errors.New("record not found")

// ArticleStore provides scoped listing and CRUD for articles.
type ArticleStore struct {
	DB *gorm.DB
}

func NewArticleStore(db *gorm.DB) *ArticleStore { return &ArticleStore{DB: db} }

// ArticleSearchParams are the enumerated article list filters. TimeRange is
// "startMs,endMs"; both bounds inclusive.
type ArticleSearchParams struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Body        string `form:"body"`
	AuthorName  string `form:"authorName"`
	TimeRange   string `form:"timeRange"`
	Page
}

// ArticleWithAuthor is an article row joined with its author's username.
type ArticleWithAuthor struct {
	models.Article
	AuthorName string `gorm:"column:author_name" json:"authorName"`
}

// searchScope composes the conjunctive filter predicate. Non-privileged
// viewers are unconditionally narrowed to their own articles; the requested
// filters can only shrink that set further.
func (s *ArticleStore) searchScope(ctx context.Context, params ArticleSearchParams, viewer auth.Viewer) (func(*gorm.DB) *gorm.DB, error) {
	var authorID *int64
	if params.AuthorName != "" {
		var author models.User
		err := s.DB.WithContext(ctx).Select("id").
			Where("user_name = ?", params.AuthorName).
			First(&author).Error
		switch {
		case err == nil:
			authorID = &author.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// An unknown author name adds no clause, matching the behavior
			// this backend has always had. See DESIGN.md before changing it.
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
		if params.Title != "" {
			db = db.Where("title LIKE ?", contains(params.Title))
		}
		if params.Description != "" {
			db = db.Where("description LIKE ?", contains(params.Description))
		}
		if params.Body != "" {
			db = db.Where("body LIKE ?", contains(params.Body))
		}
		if authorID != nil {
			db = db.Where("author_id = ?", *authorID)
		}
		if hasRange {
			// Qualified so the clause survives the users join in Search.
			db = db.Where("articles.create_time >= ? AND articles.create_time <= ?", start, end)
		}
		if !viewer.Privileged() {
			db = db.Where("author_id = ?", viewer.UserID)
		}
		return db
	}, nil
}

// Search lists articles matching the filters the viewer is authorized to
// see, newest id first, returning the pre-pagination total.
func (s *ArticleStore) Search(ctx context.Context, params ArticleSearchParams, viewer auth.Viewer) ([]ArticleWithAuthor, int64, error) {
	scope, err := s.searchScope(ctx, params, viewer)
	if err != nil {
		return nil, 0, err
	}
	page := params.Page.Normalized()

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Article{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ArticleWithAuthor
	err = s.DB.WithContext(ctx).Model(&models.Article{}).Scopes(scope).
		Select("articles.*, COALESCE(users.user_name, 'Unknown') AS author_name").
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Order("articles.id DESC").
		Offset(page.offset()).Limit(page.Size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id int64) (*ArticleWithAuthor, error) {
	var row ArticleWithAuthor
	err := s.DB.WithContext(ctx).Model(&models.Article{}).
		Select("articles.*, COALESCE(users.user_name, 'Unknown') AS author_name").
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Where("articles.id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *ArticleStore) Create(ctx context.Context, article *models.Article) error {
	return s.DB.WithContext(ctx).Create(article).Error
}

// Update patches only the provided fields.
func (s *ArticleStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	res := s.DB.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ArticleStore) BatchDelete(ctx context.Context, ids []int64) error {
	return s.DB.WithContext(ctx).Delete(&models.Article{}, ids).Error
}
