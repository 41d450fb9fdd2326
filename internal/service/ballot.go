package service

import (
	"context"
	"fmt"
	"time"

	store "lottery_service/internal/db"
	"lottery_service/internal/domain"
	"lottery_service/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BallotService records and lists ballots
type BallotService struct {
	db      *gorm.DB
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// BallotOption configures a BallotService
type BallotOption func(*BallotService)

// WithBallotClock overrides the submission timestamp source
func WithBallotClock(now func() time.Time) BallotOption {
	return func(s *BallotService) { s.now = now }
}

// WithBallotMetrics records ballot counters on m
func WithBallotMetrics(m *metrics.Metrics) BallotOption {
	return func(s *BallotService) { s.metrics = m }
}

func NewBallotService(db *gorm.DB, log logrus.FieldLogger, opts ...BallotOption) *BallotService {
	s := &BallotService{db: db, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a ballot for user in lottery. Whether the caller may take
// part at all is decided by RequireParticipant before this is called.
//
// The lottery row is share-locked while the ballot is inserted, so a
// submission either lands before a concurrent draw reads the ballots or
// observes the lottery as closed.
func (s *BallotService) Submit(ctx context.Context, user *domain.User, lottery *domain.Lottery) (*domain.Ballot, error) {
	if lottery.IsClosed {
		return nil, ErrLotteryAlreadyClosed
	}

	ballot := &domain.Ballot{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		LotteryID:   lottery.ID,
		SubmittedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Lottery
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id", "is_closed").
			First(&current, "id = ?", lottery.ID).Error; err != nil {
			if store.IsNotFound(err) {
				return ErrLotteryNotFound
			}
			return fmt.Errorf("lock lottery: %w", err)
		}
		if current.IsClosed {
			return ErrLotteryAlreadyClosed
		}
		if err := tx.Omit(clause.Associations).Create(ballot).Error; err != nil {
			return fmt.Errorf("insert ballot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBallotsSubmitted()
	s.log.WithFields(logrus.Fields{
		"ballot_id":  ballot.ID,
		"user_id":    ballot.UserID,
		"lottery_id": ballot.LotteryID,
	}).Info("Ballot submitted")

	return ballot, nil
}

// GetByID returns the ballot with the given id
func (s *BallotService) GetByID(ctx context.Context, id string) (*domain.Ballot, error) {
	var ballot domain.Ballot
	if err := s.db.WithContext(ctx).First(&ballot, "id = ?", id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrBallotNotFound
		}
		return nil, fmt.Errorf("get ballot %s: %w", id, err)
	}
	return &ballot, nil
}

// ListByUser returns all ballots of a user, oldest first
func (s *BallotService) ListByUser(ctx context.Context, userID string) ([]domain.Ballot, error) {
	ballots := make([]domain.Ballot, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at, id").
		Find(&ballots).Error; err != nil {
		return nil, fmt.Errorf("list ballots of user %s: %w", userID, err)
	}
	return ballots, nil
}

// ListByLottery returns all ballots of a lottery, oldest first
func (s *BallotService) ListByLottery(ctx context.Context, lottery *domain.Lottery) ([]domain.Ballot, error) {
	ballots := make([]domain.Ballot, 0)
	if err := s.db.WithContext(ctx).
		Where("lottery_id = ?", lottery.ID).
		Order("submitted_at, id").
		Find(&ballots).Error; err != nil {
		return nil, fmt.Errorf("list ballots of lottery %s: %w", lottery.ID, err)
	}
	return ballots, nil
}
