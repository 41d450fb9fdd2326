package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"lottery_service/internal/api"
	"lottery_service/internal/client"
	"lottery_service/internal/domain"
	"lottery_service/internal/service"
	"lottery_service/internal/testutil"
	"lottery_service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newServer(t *testing.T) (*gorm.DB, commonFlags) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	users := service.NewUserService(gdb, log, service.WithHashCost(bcrypt.MinCost))
	_, _, err := users.EnsureAdmin(context.Background(), "admin", "admin@example.com", "admin-password")
	require.NoError(t, err)

	router, err := api.NewRouter(api.Dependencies{
		DB:        gdb,
		Users:     users,
		Lotteries: service.NewLotteryService(gdb, log),
		Ballots:   service.NewBallotService(gdb, log),
		Tokens:    utils.NewTokenManager("test-secret", "lottery", time.Hour),
		Log:       log,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return gdb, commonFlags{
		baseURL:       srv.URL,
		adminEmail:    "admin@example.com",
		adminPassword: "admin-password",
		timeout:       5 * time.Second,
	}
}

func count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestPopulateAndClose(t *testing.T) {
	gdb, common := newServer(t)
	ctx := context.Background()
	first := testutil.Tomorrow()

	err := populate(ctx, populateOptions{
		commonFlags: common,
		from:        dateFlag{first},
		days:        3,
		users:       4,
		ballots:     2,
		password:    "password123",
	}, testutil.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, int64(3), count(t, gdb, &domain.Lottery{}))
	assert.Equal(t, int64(5), count(t, gdb, &domain.User{}))
	assert.Equal(t, int64(8), count(t, gdb, &domain.Ballot{}))

	// Running again reuses the existing lotteries
	err = populate(ctx, populateOptions{
		commonFlags: common,
		from:        dateFlag{first},
		days:        3,
		users:       1,
		ballots:     1,
		password:    "password123",
	}, testutil.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count(t, gdb, &domain.Lottery{}))

	for i := range 3 {
		var out bytes.Buffer
		err := closeLottery(ctx, closeOptions{commonFlags: common, date: dateFlag{first.AddDate(0, 0, i)}}, &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "closed:")
	}

	var open int64
	require.NoError(t, gdb.Model(&domain.Lottery{}).Where("is_closed = ?", false).Count(&open).Error)
	assert.Zero(t, open)
}

func TestPopulate_PastDateFails(t *testing.T) {
	gdb, common := newServer(t)

	err := populate(context.Background(), populateOptions{
		commonFlags: common,
		from:        dateFlag{testutil.Tomorrow().AddDate(0, 0, -2)},
		days:        1,
	}, testutil.NewLogger())

	assert.ErrorIs(t, err, client.ErrBadRequest)
	assert.ErrorContains(t, err, "create lottery")
	assert.Zero(t, count(t, gdb, &domain.Lottery{}))
}

func TestClose_NoWinner(t *testing.T) {
	gdb, common := newServer(t)
	ctx := context.Background()
	date := testutil.Tomorrow()
	require.NoError(t, populate(ctx, populateOptions{
		commonFlags: common,
		from:        dateFlag{date},
		days:        1,
	}, testutil.NewLogger()))

	var out bytes.Buffer
	require.NoError(t, closeLottery(ctx, closeOptions{commonFlags: common, date: dateFlag{date}}, &out))
	assert.Contains(t, out.String(), "no winner")
	assert.Equal(t, int64(1), count(t, gdb, &domain.Lottery{}))

	err := closeLottery(ctx, closeOptions{commonFlags: common, date: dateFlag{date}}, &out)
	assert.ErrorContains(t, err, "already closed")
}

func TestClose_BadAdmin(t *testing.T) {
	_, common := newServer(t)
	common.adminPassword = "wrong"

	err := closeLottery(context.Background(), closeOptions{commonFlags: common, date: dateFlag{testutil.Tomorrow()}}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "admin login")
}

func TestDateFlag(t *testing.T) {
	var d dateFlag
	assert.Empty(t, d.String())
	require.NoError(t, d.Set("2026-10-16"))
	assert.Equal(t, "2026-10-16", d.String())
	assert.Error(t, d.Set("16.10.2026"))
}

func TestRunPopulate_BadFlags(t *testing.T) {
	err := runPopulate(context.Background(), []string{"-days", "0"})
	assert.Error(t, err)
}
