package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lottery_service/internal/domain"
	"lottery_service/internal/service"
	"lottery_service/internal/testutil"
	"lottery_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]*domain.User

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := s[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func newRouter(tokens *utils.TokenManager, users UserLookup, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(tokens, users, testutil.NewLogger())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "username": user.Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", "lottery", time.Hour)
	users := stubUsers{
		"u-1": {ID: "u-1", Username: "alice"},
	}
	r := newRouter(tokens, users)

	valid, err := tokens.GenerateJWT("u-1")
	require.NoError(t, err)
	orphan, err := tokens.GenerateJWT("u-gone")
	require.NoError(t, err)
	broken, err := tokens.GenerateJWT("broken")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid token", valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "abc", http.StatusUnauthorized},
		{"deleted user", orphan, http.StatusUnauthorized},
		{"store failure", broken, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_WrongScheme(t *testing.T) {
	tokens := utils.NewTokenManager("secret", "lottery", time.Hour)
	r := newRouter(tokens, stubUsers{"u-1": {ID: "u-1"}})
	token, err := tokens.GenerateJWT("u-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestPolicyMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", "lottery", time.Hour)
	users := stubUsers{
		"admin":  {ID: "admin", Username: "root", IsAdmin: true},
		"player": {ID: "player", Username: "alice"},
	}
	adminToken, err := tokens.GenerateJWT("admin")
	require.NoError(t, err)
	playerToken, err := tokens.GenerateJWT("player")
	require.NoError(t, err)

	adminOnly := newRouter(tokens, users, AdminOnlyMiddleware())
	assert.Equal(t, http.StatusOK, get(adminOnly, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, get(adminOnly, playerToken).Code)

	participantOnly := newRouter(tokens, users, ParticipantOnlyMiddleware())
	assert.Equal(t, http.StatusOK, get(participantOnly, playerToken).Code)
	w := get(participantOnly, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admins cannot submit ballots")
}

func TestPolicyMiddleware_WithoutAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AdminOnlyMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
