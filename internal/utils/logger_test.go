package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLogRequest_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.LogRequest("GET", "/api/v1/sessions", 200, "1ms")
	assert.Contains(t, buf.String(), "level=INFO")

	buf.Reset()
	logger.LogRequest("GET", "/api/v1/sessions/x", 404, "1ms")
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	logger.LogRequest("POST", "/api/v1/analysis", 500, "1ms", "client_ip", "10.0.0.1")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "client_ip=10.0.0.1")
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	fallback := NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	r := gin.New()
	r.Use(ContextLogger(base))
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c, fallback).Info("pong")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=req-42")
	assert.Contains(t, buf.String(), "msg=pong")
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	fallback := NewDefaultLogger()

	assert.Same(t, fallback, GetLoggerFromContext(c, fallback))
}
