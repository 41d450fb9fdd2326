package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"lottery_service/internal/service" // Business logic
	"lottery_service/internal/utils"   // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"` // Display name
	Email    string `json:"email" binding:"required,email,max=191"`   // Login email
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt limit is 72 bytes
}

// Request struct for login. Username carries the email, so OAuth2 password
// form clients work unchanged.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"` // Email must be provided
	Password string `form:"password" json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a regular user account
func RegisterHandler(users *service.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, invalidInput("%v", err))
			return
		}
		username := strings.TrimSpace(req.Username)
		if len(username) < 3 {
			respondError(c, log, invalidInput("username must be at least 3 characters"))
			return
		}
		user, err := users.Register(c.Request.Context(), username, req.Email, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, newUserResponse(user))
	}
}

// LoginHandler authenticates a user and returns a JWT token. Both form and
// JSON bodies are accepted.
func LoginHandler(users *service.UserService, tokens *utils.TokenManager, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Binding follows Content-Type
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, log, invalidInput("%v", err))
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		token, err := tokens.GenerateJWT(user.ID)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   int(tokens.TTL().Seconds()),
		})
	}
}
