package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

func createTestAuthor(t *testing.T, db *gorm.DB, roleCodes ...string) (*models.User, auth.Viewer) {
	t.Helper()
	name := uniqueName("author")
	user := &models.User{
		UserName:  name,
		Password:  "x",
		UserEmail: name + "@example.com",
		Status:    models.StatusEnable,
	}
	require.NoError(t, db.Create(user).Error)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM articles WHERE author_id = ?`, user.ID)
		db.Exec(`DELETE FROM users WHERE id = ?`, user.ID)
	})
	return user, auth.Viewer{UserID: user.ID, UserName: name, RoleCodes: roleCodes}
}

func createTestArticle(t *testing.T, db *gorm.DB, authorID int64, title string) *models.Article {
	t.Helper()
	article := &models.Article{
		Slug:     uniqueName("slug"),
		Title:    title,
		Body:     "body of " + title,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

func TestArticleSearch_OwnershipNarrowing(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	mine, viewer := createTestAuthor(t, db, models.RoleCodeUser)
	other, _ := createTestAuthor(t, db, models.RoleCodeUser)

	marker := uniqueName("narrow")
	createTestArticle(t, db, mine.ID, marker+" visible")
	createTestArticle(t, db, other.ID, marker+" hidden")

	rows, total, err := s.Search(ctx, ArticleSearchParams{Title: marker}, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].AuthorID)
	assert.Equal(t, mine.UserName, rows[0].AuthorName)
}

func TestArticleSearch_PrivilegedSeesAll(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	a, _ := createTestAuthor(t, db, models.RoleCodeUser)
	b, _ := createTestAuthor(t, db, models.RoleCodeUser)
	admin := auth.Viewer{UserID: -1, RoleCodes: []string{models.RoleCodeAdmin}}

	marker := uniqueName("all")
	createTestArticle(t, db, a.ID, marker+" one")
	createTestArticle(t, db, b.ID, marker+" two")

	_, total, err := s.Search(ctx, ArticleSearchParams{Title: marker}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestArticleSearch_UnknownAuthorNameAddsNoClause(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	a, _ := createTestAuthor(t, db, models.RoleCodeUser)
	admin := auth.Viewer{UserID: -1, RoleCodes: []string{models.RoleCodeSuper}}

	marker := uniqueName("quirk")
	createTestArticle(t, db, a.ID, marker)

	// A name that matches no user must not restrict the result set.
	_, total, err := s.Search(ctx, ArticleSearchParams{
		Title:      marker,
		AuthorName: uniqueName("no_such_user"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestArticleSearch_AuthorNameFilter(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	a, _ := createTestAuthor(t, db, models.RoleCodeUser)
	b, _ := createTestAuthor(t, db, models.RoleCodeUser)
	admin := auth.Viewer{UserID: -1, RoleCodes: []string{models.RoleCodeSuper}}

	marker := uniqueName("byname")
	createTestArticle(t, db, a.ID, marker)
	createTestArticle(t, db, b.ID, marker)

	rows, total, err := s.Search(ctx, ArticleSearchParams{Title: marker, AuthorName: a.UserName}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].AuthorID)
}

func TestArticleSearch_Pagination(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	author, viewer := createTestAuthor(t, db, models.RoleCodeUser)
	marker := uniqueName("page")
	for i := 0; i < 25; i++ {
		createTestArticle(t, db, author.ID, fmt.Sprintf("%s %02d", marker, i))
	}

	rows, total, err := s.Search(ctx, ArticleSearchParams{
		Title: marker,
		Page:  Page{Current: 2, Size: 10},
	}, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, rows, 10)

	// Newest first; page 3 holds the oldest five.
	rows, _, err = s.Search(ctx, ArticleSearchParams{
		Title: marker,
		Page:  Page{Current: 3, Size: 10},
	}, viewer)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, marker+" 04", rows[0].Title)
}

func TestArticleSearch_TimeRange(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	author, _ := createTestAuthor(t, db, models.RoleCodeUser)
	admin := auth.Viewer{UserID: -1, RoleCodes: []string{models.RoleCodeSuper}}

	marker := uniqueName("range")
	createTestArticle(t, db, author.ID, marker)

	// A window covering now must include the fresh row; the clause runs
	// alongside the users join in the page query.
	future := time.Now().Add(time.Hour).UnixMilli()
	rows, total, err := s.Search(ctx, ArticleSearchParams{
		Title:     marker,
		TimeRange: fmt.Sprintf("0,%d", future),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, marker, rows[0].Title)

	// A long-past window matches nothing.
	_, total, err = s.Search(ctx, ArticleSearchParams{Title: marker, TimeRange: "0,1000"}, admin)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestArticleSearch_BadTimeRange(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)

	_, _, err := s.Search(context.Background(), ArticleSearchParams{TimeRange: "abc,def"},
		auth.Viewer{RoleCodes: []string{models.RoleCodeSuper}})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestArticleCRUD(t *testing.T) {
	db := openTestDB(t)
	s := NewArticleStore(db)
	ctx := context.Background()

	author, _ := createTestAuthor(t, db, models.RoleCodeUser)
	article := createTestArticle(t, db, author.ID, "crud title")

	got, err := s.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "crud title", got.Title)
	assert.Equal(t, author.UserName, got.AuthorName)

	require.NoError(t, s.Update(ctx, article.ID, map[string]interface{}{"title": "renamed"}))
	got, err = s.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, s.Delete(ctx, article.ID))
	_, err = s.GetByID(ctx, article.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, article.ID), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, article.ID, map[string]interface{}{"title": "x"}), ErrNotFound)
}
