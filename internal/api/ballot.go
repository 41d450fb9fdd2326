package api

import (
	"net/http" // HTTP status codes

	"lottery_service/internal/middleware" // Authenticated caller
	"lottery_service/internal/service"    // Business logic

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// SubmitBallotHandler submits a ballot for the caller to the lottery closing
// on ?lottery_date=. Administrators are turned away by the route's policy.
func SubmitBallotHandler(lotteries *service.LotteryService, ballots *service.BallotService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, ok := middleware.CurrentUser(c) // Set by JWTAuthMiddleware
		if !ok {
			respondError(c, log, service.ErrUnauthenticated)
			return
		}
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
		ballot, err := ballots.Submit(ctx, user, lottery)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, newBallotResponse(ballot))
	}
}

// ListMyBallotsHandler returns the caller's own ballots across all lotteries
func ListMyBallotsHandler(ballots *service.BallotService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			respondError(c, log, service.ErrUnauthenticated)
			return
		}
		mine, err := ballots.ListByUser(c.Request.Context(), id.UserID)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, newBallotResponses(mine))
	}
}

// ListLotteryBallotsHandler returns every ballot of the lottery closing on
// :lottery_date. Admin only.
func ListLotteryBallotsHandler(lotteries *service.LotteryService, ballots *service.BallotService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		date, err := parseDate(c.Param("lottery_date"), "lottery_date")
		if err != nil {
			respondError(c, log, err)
			return
		}
		lottery, err := lotteries.GetByClosureDate(ctx, date)
		if err != nil {
			respondError(c, log, err)
			return
		}
		all, err := ballots.ListByLottery(ctx, lottery)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, newBallotResponses(all))
	}
}
