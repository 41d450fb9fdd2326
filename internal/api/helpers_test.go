package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lottery_service/internal/metrics"
	"lottery_service/internal/service"
	"lottery_service/internal/testutil"
	"lottery_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	deps   Dependencies
}

func newTestServer(t *testing.T, opts ...service.LotteryOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	deps := Dependencies{
		DB:             gdb,
		Users:          service.NewUserService(gdb, log, service.WithHashCost(bcrypt.MinCost), service.WithUserMetrics(m)),
		Lotteries:      service.NewLotteryService(gdb, log, append(opts, service.WithLotteryMetrics(m))...),
		Ballots:        service.NewBallotService(gdb, log, service.WithBallotMetrics(m)),
		Tokens:         utils.NewTokenManager("test-secret", "lottery", time.Hour),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Log:            log,
	}
	router, err := NewRouter(deps)
	require.NoError(t, err)

	return &testServer{t: t, router: router, deps: deps}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates a regular user through the API and returns its token
func (s *testServer) register(username string) string {
	s.t.Helper()

	email := username + "@example.com"
	w := s.do(http.MethodPost, "/user/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(email, "password123")
}

// admin bootstraps an administrator and returns its token
func (s *testServer) admin() string {
	s.t.Helper()

	_, _, err := s.deps.Users.EnsureAdmin(s.t.Context(), "admin", "admin@example.com", "admin-password")
	require.NoError(s.t, err)
	return s.login("admin@example.com", "admin-password")
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/auth/login", "", gin.H{"username": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}
