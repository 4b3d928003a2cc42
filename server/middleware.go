package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

const (
	ctxClaims = "claims"
	ctxViewer = "viewer"
)

// TokenMiddleware validates the bearer token, requires the access kind, and
// resolves the caller's viewer identity (id, username, role codes) into the
// request context. Role codes are resolved per request, never cached.
func (s *Server) TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			fail(c, http.StatusUnauthorized, codeUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := s.Auth.Tokens.Verify(parts[1])
		if err != nil {
			failErr(c, err)
			c.Abort()
			return
		}
		if claims.TokenType != auth.KindAccess {
			failErr(c, auth.ErrWrongTokenKind)
			c.Abort()
			return
		}
		if s.Auth.Revoked != nil {
			revoked, err := s.Auth.Revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("auth: revocation check for jti %s skipped: %v", claims.ID, err)
			} else if revoked {
				failErr(c, auth.ErrTokenRevoked)
				c.Abort()
				return
			}
		}

		viewer, err := s.Auth.Viewer(c.Request.Context(), claims)
		if err != nil {
			fail(c, http.StatusInternalServerError, codeServerError, "resolving roles failed")
			c.Abort()
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxViewer, viewer)
		c.Next()
	}
}

// currentViewer returns the viewer set by TokenMiddleware.
func currentViewer(c *gin.Context) auth.Viewer {
	if v, ok := c.Get(ctxViewer); ok {
		if viewer, ok := v.(auth.Viewer); ok {
			return viewer
		}
	}
	return auth.Viewer{}
}

func currentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// CORSMiddleware applies the configured allowed origins.
func (s *Server) CORSMiddleware() gin.HandlerFunc {
	origins := s.cfg.CORS.Origins
	allowAll := len(origins) == 1 && origins[0] == "*"
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "":
			for _, o := range origins {
				if o == origin {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
					break
				}
			}
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// apiLogSkipPrefixes are paths excluded from request logging.
var apiLogSkipPrefixes = []string{"/health", "/api/v1/system-manage"}

// APILoggerMiddleware writes one api_logs row per request, best-effort.
func (s *Server) APILoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range apiLogSkipPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		start := time.Now()
		c.Next()

		var params json.RawMessage
		if raw := c.Request.URL.RawQuery; raw != "" {
			if b, err := json.Marshal(c.Request.URL.Query()); err == nil {
				params = b
			}
		}
		entry := &models.APILog{
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			RequestURL:    path,
			RequestParams: params,
			ResponseCode:  strconv.Itoa(c.Writer.Status()),
			ProcessTime:   time.Since(start).Seconds(),
		}
		s.Logs.AppendAPILog(c.Request.Context(), entry)
	}
}
