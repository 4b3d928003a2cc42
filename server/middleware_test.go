package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSMiddleware_AllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{cfg: &AppConfig{CORS: CORSConfig{Origins: []string{"*"}}}}

	router := gin.New()
	router.Use(s.CORSMiddleware())
	router.GET("/ping", func(c *gin.Context) { ok(c, nil) })

	e := newExpect(t, router)

	e.GET("/ping").
		WithHeader("Origin", "http://example.com").
		Expect().
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin").IsEqual("*")

	e.OPTIONS("/ping").
		WithHeader("Origin", "http://example.com").
		Expect().
		Status(http.StatusNoContent)
}

func TestCORSMiddleware_OriginAllowlist(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{cfg: &AppConfig{CORS: CORSConfig{Origins: []string{"http://allowed.test"}}}}

	router := gin.New()
	router.Use(s.CORSMiddleware())
	router.GET("/ping", func(c *gin.Context) { ok(c, nil) })

	e := newExpect(t, router)

	e.GET("/ping").
		WithHeader("Origin", "http://allowed.test").
		Expect().
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin").IsEqual("http://allowed.test")

	e.GET("/ping").
		WithHeader("Origin", "http://other.test").
		Expect().
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin").IsEmpty()
}
