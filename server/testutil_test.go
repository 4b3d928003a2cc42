package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
	"github.com/fast-admin/fastadmin/store"
)

// memPrincipals is an in-memory auth.PrincipalStore for handler tests.
type memPrincipals struct {
	users      map[int64]*models.User
	roles      map[int64][]string
	buttons    map[int64][]string
	allButtons []string
}

func newMemPrincipals() *memPrincipals {
	return &memPrincipals{
		users:   map[int64]*models.User{},
		roles:   map[int64][]string{},
		buttons: map[int64][]string{},
	}
}

func (m *memPrincipals) add(t *testing.T, id int64, name, password string, roles ...string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{ID: id, UserName: name, Password: hash, Status: models.StatusEnable}
	m.users[id] = u
	m.roles[id] = roles
	return u
}

func (m *memPrincipals) GetByUsername(_ context.Context, name string) (*models.User, error) {
	for _, u := range m.users {
		if u.UserName == name {
			return u, nil
		}
	}
	return nil, auth.ErrPrincipalNotFound
}

func (m *memPrincipals) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrPrincipalNotFound
}

func (m *memPrincipals) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (m *memPrincipals) RoleCodes(_ context.Context, userID int64) ([]string, error) {
	return m.roles[userID], nil
}

func (m *memPrincipals) ButtonCodes(_ context.Context, userID int64) ([]string, error) {
	return m.buttons[userID], nil
}

func (m *memPrincipals) AllButtonCodes(_ context.Context) ([]string, error) {
	return m.allButtons, nil
}

// nopAudit discards audit entries.
type nopAudit struct{}

func (nopAudit) Append(context.Context, models.LogType, models.LogDetail, *int64) {}

// newAuthTestServer wires a Server around in-memory principals and an
// embedded revocation store, routing only the session endpoints.
func newAuthTestServer(t *testing.T) (*Server, *memPrincipals, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager([]byte("handler-test-key"), time.Hour, 24*time.Hour)
	require.NoError(t, err)

	revoked, err := store.NewBuntRevocations()
	require.NoError(t, err)
	t.Cleanup(func() { _ = revoked.Close() })

	principals := newMemPrincipals()
	s := &Server{
		cfg:  &AppConfig{CORS: CORSConfig{Origins: []string{"*"}}},
		Auth: auth.NewService(tokens, principals, nopAudit{}, revoked),
	}

	router := gin.New()
	authGroup := router.Group("/api/v1/auth")
	authGroup.POST("/login", s.HandleLogin)
	authGroup.POST("/token", s.HandleToken)
	authGroup.POST("/refreshToken", s.HandleRefreshToken)
	authGroup.GET("/error", s.HandleCustomError)
	authGroup.GET("/getUserInfo", s.TokenMiddleware(), s.HandleGetUserInfo)
	authGroup.POST("/logout", s.TokenMiddleware(), s.HandleLogout)

	return s, principals, router
}

// newExpect starts a test HTTP server over the engine.
func newExpect(t *testing.T, router *gin.Engine) *httpexpect.Expect {
	t.Helper()
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return httpexpect.Default(t, ts.URL)
}
