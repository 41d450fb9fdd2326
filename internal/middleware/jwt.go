package middleware

import (
	"context"  // Context for user lookups
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"lottery_service/internal/domain"  // Domain models
	"lottery_service/internal/service" // Identity and access policy
	"lottery_service/internal/utils"   // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Context keys set by JWTAuthMiddleware
const (
	userKey     = "user"
	identityKey = "identity"
)

// UserLookup loads the user a token was issued to
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// JWTAuthMiddleware validates JWT tokens and loads the caller. Roles are read
// from the database on every request, so a revoked admin flag applies at once.
func JWTAuthMiddleware(tokens *utils.TokenManager, users UserLookup, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		// Check if the Authorization header is present and properly formatted
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := tokens.ParseJWT(strings.TrimSpace(tokenStr)) // Parse the JWT token
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, service.ErrUserNotFound) {
			// Token outlived its user
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if err != nil {
			log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load authenticated user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(userKey, user)                         // Store user in context
		c.Set(identityKey, service.IdentityOf(user)) // Store identity in context
		c.Next()                                     // Proceed to the next handler
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// CurrentIdentity returns the identity stored by JWTAuthMiddleware
func CurrentIdentity(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}
