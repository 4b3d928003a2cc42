package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/store"
)

// Business codes carried in the response envelope, matching what the admin
// front end dispatches on.
const (
	codeOK           = "0000"
	codeBadRequest   = "4000"
	codeUnauthorized = "4010"
	codeForbidden    = "4030"
	codeNotFound     = "4040"
	codeServerError  = "5000"
)

type envelope struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

type listEnvelope struct {
	envelope
	Total   int64 `json:"total"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
}

// ok writes the success envelope.
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Code: codeOK, Msg: "success", Data: data})
}

// okList writes a paginated success envelope with the pre-pagination total.
func okList(c *gin.Context, records interface{}, total int64, current, size int) {
	c.JSON(http.StatusOK, listEnvelope{
		envelope: envelope{Code: codeOK, Msg: "success", Data: gin.H{"records": records}},
		Total:    total,
		Current:  current,
		Size:     size,
	})
}

func fail(c *gin.Context, status int, code, msg string) {
	c.JSON(status, envelope{Code: code, Msg: msg})
}

// failErr maps a typed core error onto a transport status and business code.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, codeUnauthorized, "invalid username or password")
	case errors.Is(err, auth.ErrTokenExpired):
		fail(c, http.StatusUnauthorized, codeUnauthorized, "token has expired")
	case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrTokenRevoked):
		fail(c, http.StatusUnauthorized, codeUnauthorized, "token is not valid")
	case errors.Is(err, auth.ErrWrongTokenKind):
		fail(c, http.StatusBadRequest, codeBadRequest, "wrong token kind")
	case errors.Is(err, auth.ErrPrincipalDisabled):
		fail(c, http.StatusForbidden, codeForbidden, "this user has been disabled")
	case errors.Is(err, auth.ErrPrincipalNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "user not found")
	case errors.Is(err, store.ErrInvalidFilter):
		fail(c, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, codeNotFound, "record not found")
	default:
		fail(c, http.StatusInternalServerError, codeServerError, "internal server error")
	}
}
