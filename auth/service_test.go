package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fast-admin/fastadmin/models"
)

// fakePrincipals is an in-memory PrincipalStore keyed by user name.
type fakePrincipals struct {
	users      map[string]*models.User
	roles      map[int64][]string
	buttons    map[int64][]string
	allButtons []string
	lastLogin  map[int64]time.Time
	err        error // when set, lookups fail with this error
}

func newFakePrincipals() *fakePrincipals {
	return &fakePrincipals{
		users:     map[string]*models.User{},
		roles:     map[int64][]string{},
		buttons:   map[int64][]string{},
		lastLogin: map[int64]time.Time{},
	}
}

func (f *fakePrincipals) add(t *testing.T, id int64, name, password string, status models.StatusType, roles ...string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{ID: id, UserName: name, Password: hash, Status: status}
	f.users[name] = u
	f.roles[id] = roles
	return u
}

func (f *fakePrincipals) GetByUsername(_ context.Context, name string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[name]; ok {
		return u, nil
	}
	return nil, ErrPrincipalNotFound
}

func (f *fakePrincipals) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrPrincipalNotFound
}

func (f *fakePrincipals) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func (f *fakePrincipals) RoleCodes(_ context.Context, userID int64) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakePrincipals) ButtonCodes(_ context.Context, userID int64) ([]string, error) {
	return f.buttons[userID], nil
}

func (f *fakePrincipals) AllButtonCodes(_ context.Context) ([]string, error) {
	return f.allButtons, nil
}

// auditEntry mirrors one Append call for assertions.
type auditEntry struct {
	logType models.LogType
	detail  models.LogDetail
	byUser  *int64
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Append(_ context.Context, logType models.LogType, detail models.LogDetail, byUserID *int64) {
	f.entries = append(f.entries, auditEntry{logType: logType, detail: detail, byUser: byUserID})
}

func (f *fakeAudit) details() []models.LogDetail {
	out := make([]models.LogDetail, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.detail)
	}
	return out
}

type fakeRevocations struct {
	revoked map[string]time.Time
	err     error // when set, IsRevoked fails with this error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Time{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	f.revoked[jti] = until
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

func newTestService(t *testing.T) (*Service, *fakePrincipals, *fakeAudit, *fakeRevocations) {
	t.Helper()
	m := newTestManager(t)
	users := newFakePrincipals()
	audit := &fakeAudit{}
	revoked := newFakeRevocations()
	return NewService(m, users, audit, revoked), users, audit, revoked
}

func TestLogin_Success(t *testing.T) {
	svc, users, audit, _ := newTestService(t)
	users.add(t, 1, "Soybean", "123456", models.StatusEnable, models.RoleCodeSuper)

	pair, err := svc.Login(context.Background(), "Soybean", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.Token, pair.RefreshToken)

	access, err := svc.Tokens.Verify(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, access.TokenType)
	refresh, err := svc.Tokens.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, refresh.TokenType)

	assert.Contains(t, users.lastLogin, int64(1))
	assert.Equal(t, []models.LogDetail{models.LogUserLoginSuccess}, audit.details())
}

func TestLogin_UnknownUserAndWrongPassword(t *testing.T) {
	svc, users, audit, _ := newTestService(t)
	users.add(t, 1, "Soybean", "123456", models.StatusEnable)

	_, err := svc.Login(context.Background(), "nobody", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "Soybean", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, []models.LogDetail{models.LogUserLoginBadName, models.LogUserLoginBadPass}, audit.details())
	// The bad-password entry still names the account.
	require.NotNil(t, audit.entries[1].byUser)
	assert.Equal(t, int64(1), *audit.entries[1].byUser)
}

func TestRefresh_Success(t *testing.T) {
	svc, users, audit, revoked := newTestService(t)
	users.add(t, 7, "Admin", "123456", models.StatusEnable, models.RoleCodeAdmin)

	pair, err := svc.Login(context.Background(), "Admin", "123456")
	require.NoError(t, err)

	oldClaims, err := svc.Tokens.Verify(pair.RefreshToken)
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.Token)
	assert.NotEmpty(t, next.RefreshToken)

	// The used refresh token is single-use.
	assert.Contains(t, revoked.revoked, oldClaims.ID)
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.Contains(t, audit.details(), models.LogUserRefreshToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 7, "Admin", "123456", models.StatusEnable)

	pair, err := svc.Login(context.Background(), "Admin", "123456")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.Token)
	assert.ErrorIs(t, err, ErrWrongTokenKind)
}

func TestRefresh_DisabledUser(t *testing.T) {
	svc, users, audit, _ := newTestService(t)
	user := users.add(t, 9, "Blocked", "123456", models.StatusEnable)

	pair, err := svc.Login(context.Background(), "Blocked", "123456")
	require.NoError(t, err)

	user.Status = models.StatusDisable
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrPrincipalDisabled)

	forbids := 0
	for _, d := range audit.details() {
		if d == models.LogUserLoginForbid {
			forbids++
		}
	}
	assert.Equal(t, 1, forbids)
}

func TestRefresh_DeletedUser(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 9, "Gone", "123456", models.StatusEnable)

	pair, err := svc.Login(context.Background(), "Gone", "123456")
	require.NoError(t, err)

	delete(users.users, "Gone")
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestLogin_StoreErrorPassesThrough(t *testing.T) {
	svc, users, audit, _ := newTestService(t)
	users.add(t, 1, "Soybean", "123456", models.StatusEnable)

	boom := errors.New("connection refused")
	users.err = boom

	// An infrastructure failure must not masquerade as bad credentials.
	_, err := svc.Login(context.Background(), "Soybean", "123456")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, audit.entries)
}

func TestRefresh_RevocationCheckFailsClosed(t *testing.T) {
	svc, users, _, revoked := newTestService(t)
	users.add(t, 7, "Admin", "123456", models.StatusEnable)

	pair, err := svc.Login(context.Background(), "Admin", "123456")
	require.NoError(t, err)

	boom := errors.New("revocation store down")
	revoked.err = boom

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, boom)
}

func TestUserInfo_StoreErrorPassesThrough(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 3, "User", "123456", models.StatusEnable)

	boom := errors.New("connection refused")
	users.err = boom

	_, err := svc.UserInfo(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrPrincipalNotFound)
}

func TestUserInfo_SuperSeesAllButtons(t *testing.T) {
	svc, users, audit, _ := newTestService(t)
	users.add(t, 1, "Soybean", "123456", models.StatusEnable, models.RoleCodeSuper)
	users.buttons[1] = []string{"B_CODE1"}
	users.allButtons = []string{"B_CODE1", "B_CODE2", "B_CODE3"}

	info, err := svc.UserInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B_CODE1", "B_CODE2", "B_CODE3"}, info.Buttons)
	assert.Equal(t, []string{models.RoleCodeSuper}, info.Roles)
	assert.Equal(t, int64(1), info.UserID)
	assert.Contains(t, audit.details(), models.LogUserGetUserInfo)
}

func TestUserInfo_RegularUserButtons(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 2, "User", "123456", models.StatusEnable, models.RoleCodeUser)
	users.buttons[2] = []string{"B_CODE3"}
	users.allButtons = []string{"B_CODE1", "B_CODE2", "B_CODE3"}

	info, err := svc.UserInfo(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B_CODE3"}, info.Buttons)
}

func TestUserInfo_EmptySlicesNotNil(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 3, "Bare", "123456", models.StatusEnable)

	info, err := svc.UserInfo(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, info.Roles)
	assert.NotNil(t, info.Buttons)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, users, audit, revoked := newTestService(t)
	users.add(t, 4, "Out", "123456", models.StatusEnable)

	pair, err := svc.Login(context.Background(), "Out", "123456")
	require.NoError(t, err)
	claims, err := svc.Tokens.Verify(pair.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.Contains(t, revoked.revoked, claims.ID)
	assert.Contains(t, audit.details(), models.LogUserLogout)
}

func TestViewer_ResolvesRoles(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	users.add(t, 5, "Admin", "123456", models.StatusEnable, models.RoleCodeAdmin)

	claims := &Claims{UserID: 5, UserName: "Admin", TokenType: KindAccess}
	viewer, err := svc.Viewer(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, int64(5), viewer.UserID)
	assert.True(t, viewer.Privileged())
}
