package api

import (
	"net/http" // HTTP handler for metrics

	"lottery_service/internal/middleware" // Auth and policy middleware
	"lottery_service/internal/service"    // Business logic
	"lottery_service/internal/utils"      // JWT and cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Dependencies wires handlers to their collaborators
type Dependencies struct {
	DB             *gorm.DB                // Used by the health check
	Users          *service.UserService    // Registration and login
	Lotteries      *service.LotteryService // Lottery lifecycle
	Ballots        *service.BallotService  // Ballot register
	Tokens         *utils.TokenManager     // Access tokens
	Cache          *utils.Cache            // Read cache, nil when disabled
	MetricsHandler http.Handler            // Prometheus exposition, route omitted when nil
	Log            logrus.FieldLogger      // Request and error logging
	TrustedProxies []string                // Proxies allowed to set client IP headers
}

// NewRouter builds the HTTP routes of the lottery service
func NewRouter(d Dependencies) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	// Health routes
	r.GET("/ping", PingHandler())
	r.GET("/health", HealthHandler(d.DB, d.Log))
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	// Auth routes
	r.POST("/user/register", RegisterHandler(d.Users, d.Log))
	r.POST("/auth/login", LoginHandler(d.Users, d.Tokens, d.Log))

	authenticated := middleware.JWTAuthMiddleware(d.Tokens, d.Users, d.Log)
	adminOnly := middleware.AdminOnlyMiddleware()

	// Lottery routes, reads are public
	lotteries := r.Group("/lotteries")
	lotteries.GET("", ListOpenLotteriesHandler(d.Lotteries, d.Cache, d.Log))
	lotteries.GET("/:closure_date", GetLotteryHandler(d.Lotteries, d.Log))
	lotteries.GET("/:closure_date/winner", GetWinnerHandler(d.Lotteries, d.Cache, d.Log))
	lotteries.POST("", authenticated, adminOnly, CreateLotteryHandler(d.Lotteries, d.Cache, d.Log))
	lotteries.POST("/close_and_draw", authenticated, adminOnly, CloseAndDrawHandler(d.Lotteries, d.Cache, d.Log))

	// Ballot routes (protected by JWT)
	ballots := r.Group("/ballots")
	ballots.Use(authenticated)
	ballots.POST("", middleware.ParticipantOnlyMiddleware(), SubmitBallotHandler(d.Lotteries, d.Ballots, d.Log))
	ballots.GET("/mine", ListMyBallotsHandler(d.Ballots, d.Log))
	ballots.GET("/lottery/:lottery_date", adminOnly, ListLotteryBallotsHandler(d.Lotteries, d.Ballots, d.Log))

	return r, nil
}
