package service

import (
	"testing"
	"time"

	"lottery_service/internal/domain"
	"lottery_service/internal/testutil"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	lotteries *LotteryService
	ballots   *BallotService
	users     *UserService
}

func newFixture(t *testing.T, opts ...LotteryOption) *fixture {
	t.Helper()

	gdb := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	return &fixture{
		db:        gdb,
		lotteries: NewLotteryService(gdb, log, opts...),
		ballots:   NewBallotService(gdb, log),
		users:     NewUserService(gdb, log, WithHashCost(bcrypt.MinCost)),
	}
}

// insertLottery writes an open lottery row directly
func insertLottery(t *testing.T, gdb *gorm.DB, date time.Time) *domain.Lottery {
	t.Helper()

	lottery := &domain.Lottery{
		ID:          uuid.NewString(),
		Name:        "lottery " + domain.FormatDate(date),
		ClosureDate: domain.DateOf(date),
		CreatedAt:   time.Now().UTC(),
	}
	if err := gdb.Create(lottery).Error; err != nil {
		t.Fatalf("failed to insert lottery: %v", err)
	}
	return lottery
}

// insertBallot writes a ballot row directly
func insertBallot(t *testing.T, gdb *gorm.DB, user *domain.User, lottery *domain.Lottery) *domain.Ballot {
	t.Helper()

	ballot := &domain.Ballot{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		LotteryID:   lottery.ID,
		SubmittedAt: time.Now().UTC(),
	}
	if err := gdb.Omit("User", "Lottery").Create(ballot).Error; err != nil {
		t.Fatalf("failed to insert ballot: %v", err)
	}
	return ballot
}
