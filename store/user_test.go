package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

// ensureTestRole creates a throwaway role for linking tests.
func ensureTestRole(t *testing.T, s *UserStore) *models.Role {
	t.Helper()
	name := uniqueName("role")
	role := &models.Role{RoleName: name, RoleCode: name, RoleHome: "home", Status: models.StatusEnable}
	require.NoError(t, s.DB.Create(role).Error)
	t.Cleanup(func() {
		s.DB.Exec(`DELETE FROM users_roles WHERE role_id = ?`, role.ID)
		s.DB.Exec(`DELETE FROM roles WHERE id = ?`, role.ID)
	})
	return role
}

func TestUserStore_CreateAndAuthenticateFields(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	role := ensureTestRole(t, s)

	name := uniqueName("user")
	user := &models.User{UserName: name, UserEmail: name + "@example.com"}
	require.NoError(t, s.Create(ctx, user, "secret-pass", []string{role.RoleCode}))
	t.Cleanup(func() { _ = s.Delete(ctx, user.ID) })

	got, err := s.GetByUsername(ctx, name)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", got.Password)
	assert.True(t, auth.CheckPassword(got.Password, "secret-pass"))
	assert.Equal(t, models.StatusEnable, got.Status)
	assert.Equal(t, models.GenderUnknown, got.UserGender)

	codes, err := s.RoleCodes(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{role.RoleCode}, codes)
}

func TestUserStore_GetByUsernameNotFound(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)

	_, err := s.GetByUsername(context.Background(), uniqueName("missing"))
	assert.ErrorIs(t, err, auth.ErrPrincipalNotFound)
}

func TestUserStore_UpdateLastLogin(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	name := uniqueName("lastlogin")
	user := &models.User{UserName: name, UserEmail: name + "@example.com"}
	require.NoError(t, s.Create(ctx, user, "pw", nil))
	t.Cleanup(func() { _ = s.Delete(ctx, user.ID) })

	at := time.Now().Truncate(time.Second)
	require.NoError(t, s.UpdateLastLogin(ctx, user.ID, at))

	got, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)
}

func TestUserStore_SearchFilters(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	name := uniqueName("searchable")
	user := &models.User{UserName: name, UserEmail: name + "@example.com"}
	require.NoError(t, s.Create(ctx, user, "pw", nil))
	t.Cleanup(func() { _ = s.Delete(ctx, user.ID) })

	rows, total, err := s.Search(ctx, UserSearchParams{UserName: name})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, name, rows[0].UserName)
	assert.NotNil(t, rows[0].UserRoles)

	_, total, err = s.Search(ctx, UserSearchParams{UserName: name, Status: string(models.StatusDisable)})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUserStore_UpdateReplacesRoles(t *testing.T) {
	db := openTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	roleA := ensureTestRole(t, s)
	roleB := ensureTestRole(t, s)

	name := uniqueName("reroled")
	user := &models.User{UserName: name, UserEmail: name + "@example.com"}
	require.NoError(t, s.Create(ctx, user, "pw", []string{roleA.RoleCode}))
	t.Cleanup(func() { _ = s.Delete(ctx, user.ID) })

	nick := "renamed"
	require.NoError(t, s.Update(ctx, user.ID, map[string]interface{}{"nick_name": nick}, []string{roleB.RoleCode}))

	got, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NickName)
	assert.Equal(t, nick, *got.NickName)

	codes, err := s.RoleCodes(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{roleB.RoleCode}, codes)
}
