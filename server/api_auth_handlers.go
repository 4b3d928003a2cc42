package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HandleLogin authenticates a user and issues an access/refresh pair.
func (s *Server) HandleLogin(c *gin.Context) {
	var payload struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, codeBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(payload.UserName) == "" || strings.TrimSpace(payload.Password) == "" {
		fail(c, http.StatusBadRequest, codeBadRequest, "userName and password are required")
		return
	}
	pair, err := s.Auth.Login(c.Request.Context(), payload.UserName, payload.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, pair)
}

// HandleToken is the form-encoded login for API docs tooling. It answers
// with a bare bearer response instead of the standard envelope.
func (s *Server) HandleToken(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		fail(c, http.StatusBadRequest, codeBadRequest, "username and password are required")
		return
	}
	token, err := s.Auth.AccessToken(c.Request.Context(), username, password)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// HandleRefreshToken exchanges a refresh token for a new pair.
func (s *Server) HandleRefreshToken(c *gin.Context) {
	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.RefreshToken) == "" {
		fail(c, http.StatusBadRequest, codeBadRequest, "the refreshToken is not valid")
		return
	}
	pair, err := s.Auth.Refresh(c.Request.Context(), payload.RefreshToken)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, pair)
}

// HandleGetUserInfo returns the caller's profile with roles and buttons.
func (s *Server) HandleGetUserInfo(c *gin.Context) {
	viewer := currentViewer(c)
	info, err := s.Auth.UserInfo(c.Request.Context(), viewer.UserID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, info)
}

// HandleLogout revokes the presented access token.
func (s *Server) HandleLogout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		fail(c, http.StatusUnauthorized, codeUnauthorized, "missing token")
		return
	}
	if err := s.Auth.Logout(c.Request.Context(), claims); err != nil {
		failErr(c, err)
		return
	}
	ok(c, nil)
}

// HandleCustomError echoes a backend error for front-end testing.
func (s *Server) HandleCustomError(c *gin.Context) {
	code := c.Query("code")
	msg := c.Query("msg")
	if code == "9999" {
		fail(c, http.StatusOK, codeForbidden, "access token has expired")
		return
	}
	fail(c, http.StatusOK, code, fmt.Sprintf("unknown error, code: %s msg: %s", code, msg))
}
