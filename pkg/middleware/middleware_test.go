package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCORS_PreflightAnsweredWithoutBody(t *testing.T) {
	g := gin.New()
	g.Use(CORS())
	called := false
	g.POST("/api", func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api", strings.NewReader(`{"action":"saveDocument"}`))
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.False(t, called)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_HeadersOnRegularResponses(t *testing.T) {
	g := gin.New()
	g.Use(CORS())
	g.POST("/api", func(c *gin.Context) { c.JSON(http.StatusBadRequest, gin.H{"status": "error"}) })

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJSONRecovery(t *testing.T) {
	g := gin.New()
	g.Use(JSONRecovery())
	g.POST("/api", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"status":"error","message":"boom"}`, w.Body.String())
}

func TestRequestLogger_SetsID(t *testing.T) {
	g := gin.New()
	g.Use(RequestLogger())
	g.GET("/health", func(c *gin.Context) {
		id, ok := c.Get("request_id")
		require.True(t, ok)
		require.NotEmpty(t, id)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, "client-id", w.Header().Get(RequestIDHeader))
}
