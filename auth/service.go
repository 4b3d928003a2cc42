package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fast-admin/fastadmin/models"
)

// PrincipalStore is the user lookup boundary consumed by the session layer.
type PrincipalStore interface {
	GetByUsername(ctx context.Context, name string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	RoleCodes(ctx context.Context, userID int64) ([]string, error)
	ButtonCodes(ctx context.Context, userID int64) ([]string, error)
	AllButtonCodes(ctx context.Context) ([]string, error)
}

// AuditSink records audit events. Implementations must be best-effort:
// Append never returns an error and must not block the caller's outcome.
type AuditSink interface {
	Append(ctx context.Context, logType models.LogType, detail models.LogDetail, byUserID *int64)
}

// RevocationStore tracks revoked token IDs until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenPair is the login/refresh result. JSON names match what the admin
// front end expects.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// UserInfo is the profile payload for the authenticated caller.
type UserInfo struct {
	models.User
	UserID  int64    `json:"userId"`
	Roles   []string `json:"roles"`
	Buttons []string `json:"buttons"`
}

// Service binds the token Manager to the principal store and audit sink.
type Service struct {
	Tokens  *Manager
	Users   PrincipalStore
	Audit   AuditSink
	Revoked RevocationStore // optional; nil disables logout revocation
}

func NewService(tokens *Manager, users PrincipalStore, audit AuditSink, revoked RevocationStore) *Service {
	return &Service{Tokens: tokens, Users: users, Audit: audit, Revoked: revoked}
}

// Authenticate verifies credentials and returns the matching user. It does
// not issue tokens and deliberately reports the same error for an unknown
// username and a wrong password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrPrincipalNotFound) {
			return nil, err
		}
		s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLoginBadName, nil)
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(user.Password, password) {
		s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLoginBadPass, &user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a fresh access/refresh pair.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdateLastLogin(ctx, user.ID, s.Tokens.Now()); err != nil {
		return nil, err
	}
	s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLoginSuccess, &user.ID)
	return pair, nil
}

// AccessToken authenticates and issues only an access token. It backs the
// form-encoded login used by API docs tooling.
func (s *Service) AccessToken(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	token, err := s.Tokens.Issue(user, KindAccess)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateLastLogin(ctx, user.ID, s.Tokens.Now()); err != nil {
		return "", err
	}
	s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLoginSuccess, &user.ID)
	return token, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// The old refresh token is revoked when a revocation store is configured.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != KindRefresh {
		return nil, ErrWrongTokenKind
	}
	// Fail closed: an unreachable revocation store must not let a consumed
	// refresh token through.
	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	user, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Status.Enabled() {
		s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLoginForbid, &user.ID)
		return nil, ErrPrincipalDisabled
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	if s.Revoked != nil && claims.ExpiresAt != nil {
		// Single-use refresh tokens; failure here is not fatal.
		_ = s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	}
	if err := s.Users.UpdateLastLogin(ctx, user.ID, s.Tokens.Now()); err != nil {
		return nil, err
	}
	s.Audit.Append(ctx, models.LogTypeUser, models.LogUserRefreshToken, &user.ID)
	return pair, nil
}

// UserInfo resolves the caller's profile, role codes and button codes.
// Super admins see the full button catalog.
func (s *Service) UserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.Users.RoleCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buttons []string
	if containsRole(roles, models.RoleCodeSuper) {
		buttons, err = s.Users.AllButtonCodes(ctx)
	} else {
		buttons, err = s.Users.ButtonCodes(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	if buttons == nil {
		buttons = []string{}
	}
	s.Audit.Append(ctx, models.LogTypeUser, models.LogUserGetUserInfo, &user.ID)
	return &UserInfo{User: *user, UserID: user.ID, Roles: roles, Buttons: buttons}, nil
}

// Logout revokes the presented token until its expiry. A nil revocation
// store makes this a no-op beyond the audit entry.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.Revoked != nil && claims.ExpiresAt != nil {
		if err := s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return err
		}
	}
	s.Audit.Append(ctx, models.LogTypeUser, models.LogUserLogout, &claims.UserID)
	return nil
}

// Viewer resolves the per-request identity from verified claims.
func (s *Service) Viewer(ctx context.Context, claims *Claims) (Viewer, error) {
	roles, err := s.Users.RoleCodes(ctx, claims.UserID)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{UserID: claims.UserID, UserName: claims.UserName, RoleCodes: roles}, nil
}

func (s *Service) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.Tokens.Issue(user, KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.Issue(user, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: access, RefreshToken: refresh}, nil
}

func (s *Service) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.Revoked == nil {
		return false, nil
	}
	return s.Revoked.IsRevoked(ctx, jti)
}

func containsRole(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
