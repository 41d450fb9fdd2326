package api

import (
	"context"  // Context for cache writes
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Dates

	"lottery_service/internal/domain"  // Domain models
	"lottery_service/internal/service" // Business logic
	"lottery_service/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Request struct for lottery creation
type CreateLotteryRequest struct {
	ClosureDate string `json:"closure_date" binding:"required"` // YYYY-MM-DD
	Name        string `json:"name" binding:"max=255"`          // Optional, generated when empty
}

func parseDate(value, field string) (time.Time, error) {
	date, err := domain.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalidInput("%s must be a date formatted as YYYY-MM-DD", field)
	}
	return date, nil
}

// ListOpenLotteriesHandler returns lotteries still accepting ballots
func ListOpenLotteriesHandler(lotteries *service.LotteryService, cache *utils.Cache, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []LotteryResponse
		found, err := cache.GetCache(ctx, utils.OpenLotteriesKey, &cached) // Try to get from cache
		if err != nil {
			log.WithError(err).Warn("Failed to read open lotteries from cache")
		}
		if found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}

		// Taken before the store read so a close committing meanwhile voids the write
		version, versionErr := cache.Version(ctx, utils.OpenLotteriesKey)
		open, err := lotteries.ListOpen(ctx)
		if err != nil {
			respondError(c, log, err)
			return
		}
		resp := newLotteryResponses(open)
		if versionErr != nil {
			log.WithError(versionErr).Warn("Failed to read open lotteries cache version")
		} else if err := cache.SetCacheAt(ctx, utils.OpenLotteriesKey, version, resp); err != nil {
			log.WithError(err).Warn("Failed to cache open lotteries")
		}
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, resp)
	}
}

// GetLotteryHandler returns the lottery closing on :closure_date
func GetLotteryHandler(lotteries *service.LotteryService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := parseDate(c.Param("closure_date"), "closure_date")
		if err != nil {
			respondError(c, log, err)
			return
		}
		lottery, err := lotteries.GetByClosureDate(c.Request.Context(), date)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, newLotteryResponse(lottery))
	}
}

// GetWinnerHandler returns the winning ballot of the lottery closing on
// :closure_date. Winners never change once drawn, so the view is cached.
func GetWinnerHandler(lotteries *service.LotteryService, cache *utils.Cache, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		date, err := parseDate(c.Param("closure_date"), "closure_date")
		if err != nil {
			respondError(c, log, err)
			return
		}
		cacheKey := utils.WinnerKey(domain.FormatDate(date)) // Cache key for the winner view

		var cached WinnerResponse
		found, err := cache.GetCache(ctx, cacheKey, &cached)
		if err != nil {
			log.WithError(err).Warn("Failed to read winner from cache")
		}
		if found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}

		lottery, err := lotteries.GetByClosureDate(ctx, date)
		if err != nil {
			respondError(c, log, err)
			return
		}
		winner, err := lotteries.GetWinningBallot(ctx, lottery)
		if err != nil {
			respondError(c, log, err)
			return
		}
		resp := newWinnerResponse(winner)
		if err := cache.SetCache(ctx, cacheKey, resp); err != nil {
			log.WithError(err).Warn("Failed to cache winner")
		}
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, resp)
	}
}

// CreateLotteryHandler opens a new lottery. Admin only.
func CreateLotteryHandler(lotteries *service.LotteryService, cache *utils.Cache, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLotteryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, log, invalidInput("%v", err))
			return
		}
		date, err := parseDate(req.ClosureDate, "closure_date")
		if err != nil {
			respondError(c, log, err)
			return
		}
		lottery, err := lotteries.Create(c.Request.Context(), date, req.Name)
		if err != nil {
			respondError(c, log, err)
			return
		}
		invalidate(c.Request.Context(), cache, log, utils.OpenLotteriesKey) // Open list changed
		c.JSON(http.StatusCreated, newLotteryResponse(lottery))
	}
}

// CloseAndDrawHandler closes the lottery for ?lottery_date= and draws its
// winner. Admin only.
func CloseAndDrawHandler(lotteries *service.LotteryService, cache *utils.Cache, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		date, err := parseDate(c.Query("lottery_date"), "lottery_date")
		if err != nil {
			respondError(c, log, err)
			return
		}
		lottery, err := lotteries.GetByClosureDate(ctx, date)
		if err != nil {
			respondError(c, log, err)
			return
		}
		closed, err := lotteries.CloseAndDrawWinner(ctx, lottery)
		if err != nil {
			respondError(c, log, err)
			return
		}
		// Open list and any stale winner lookups changed
		invalidate(ctx, cache, log, utils.OpenLotteriesKey, utils.WinnerKey(domain.FormatDate(closed.ClosureDate)))
		c.JSON(http.StatusOK, newLotteryResponse(closed))
	}
}

func invalidate(ctx context.Context, cache *utils.Cache, log logrus.FieldLogger, keys ...string) {
	if err := cache.DeleteCache(ctx, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Warn("Failed to invalidate cache")
	}
}
