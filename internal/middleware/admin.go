package middleware

import (
	"net/http" // HTTP status codes

	"lottery_service/internal/service" // Access policy

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware lets only administrators through. It must run after
// JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return policyMiddleware(service.RequireAdmin)
}

// ParticipantOnlyMiddleware lets only non-administrators through
func ParticipantOnlyMiddleware() gin.HandlerFunc {
	return policyMiddleware(service.RequireParticipant)
}

func policyMiddleware(rule func(service.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, exists := CurrentIdentity(c) // Get identity from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := rule(id); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
