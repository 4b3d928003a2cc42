package auth

import "errors"

// Sentinel errors returned by the session layer. The HTTP layer maps these
// to response codes; nothing here knows about transports.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrWrongTokenKind     = errors.New("wrong token kind")
	ErrPrincipalDisabled  = errors.New("user disabled")
	ErrPrincipalNotFound  = errors.New("user not found")
)
