package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/ping", "/health"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String(), path)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	s := newTestServer(t)
	sqlDB, err := s.deps.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin()
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/lotteries", admin, gin.H{"closure_date": tomorrow()}).Code)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lottery_lotteries_created_total 1")
}
