package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	store "lottery_service/internal/db"
	"lottery_service/internal/domain"
	"lottery_service/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Picker returns an index in [0, n). Every index must be equally likely.
type Picker func(n int) int

// LotteryService manages lottery lifecycle: creation, lookup and the
// close-and-draw transition.
type LotteryService struct {
	db      *gorm.DB
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
	pick    Picker
	newName NameGenerator
}

// LotteryOption configures a LotteryService
type LotteryOption func(*LotteryService)

// WithLotteryClock overrides the clock used to decide what "today" is
func WithLotteryClock(now func() time.Time) LotteryOption {
	return func(s *LotteryService) { s.now = now }
}

// WithPicker overrides the random source used to draw winners
func WithPicker(pick Picker) LotteryOption {
	return func(s *LotteryService) { s.pick = pick }
}

// WithNameGenerator overrides the generator for unnamed lotteries
func WithNameGenerator(gen NameGenerator) LotteryOption {
	return func(s *LotteryService) { s.newName = gen }
}

// WithLotteryMetrics records lottery counters on m
func WithLotteryMetrics(m *metrics.Metrics) LotteryOption {
	return func(s *LotteryService) { s.metrics = m }
}

func NewLotteryService(db *gorm.DB, log logrus.FieldLogger, opts ...LotteryOption) *LotteryService {
	s := &LotteryService{
		db:      db,
		log:     log,
		now:     time.Now,
		pick:    rand.IntN,
		newName: RandomLotteryName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new lottery closing on closureDate. An empty name is
// replaced by a generated one.
func (s *LotteryService) Create(ctx context.Context, closureDate time.Time, name string) (*domain.Lottery, error) {
	date := domain.DateOf(closureDate)
	if date.Before(domain.DateOf(s.now())) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClosureDate, domain.FormatDate(date))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.newName()
	}

	if _, err := s.GetByClosureDate(ctx, date); err == nil {
		return nil, ErrLotteryAlreadyExists
	} else if !errors.Is(err, ErrLotteryNotFound) {
		return nil, err
	}

	lottery := &domain.Lottery{
		ID:          uuid.NewString(),
		Name:        name,
		ClosureDate: date,
		CreatedAt:   s.now().UTC(),
	}
	// A concurrent create for the same date loses on the unique index
	if err := s.db.WithContext(ctx).Create(lottery).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrLotteryAlreadyExists
		}
		return nil, fmt.Errorf("create lottery: %w", err)
	}

	s.metrics.IncLotteriesCreated()
	s.log.WithFields(logrus.Fields{
		"lottery_id":   lottery.ID,
		"closure_date": domain.FormatDate(lottery.ClosureDate),
		"name":         lottery.Name,
	}).Info("Lottery created")

	return lottery, nil
}

// GetByID returns the lottery with the given id
func (s *LotteryService) GetByID(ctx context.Context, id string) (*domain.Lottery, error) {
	var lottery domain.Lottery
	if err := s.db.WithContext(ctx).First(&lottery, "id = ?", id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrLotteryNotFound
		}
		return nil, fmt.Errorf("get lottery %s: %w", id, err)
	}
	return &lottery, nil
}

// GetByClosureDate returns the lottery closing on the given calendar date
func (s *LotteryService) GetByClosureDate(ctx context.Context, date time.Time) (*domain.Lottery, error) {
	date = domain.DateOf(date)

	var lottery domain.Lottery
	if err := s.db.WithContext(ctx).First(&lottery, "closure_date = ?", date).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrLotteryNotFound
		}
		return nil, fmt.Errorf("get lottery for %s: %w", domain.FormatDate(date), err)
	}
	return &lottery, nil
}

// ListOpen returns every lottery still accepting ballots, earliest closure first
func (s *LotteryService) ListOpen(ctx context.Context) ([]domain.Lottery, error) {
	lotteries := make([]domain.Lottery, 0)
	if err := s.db.WithContext(ctx).
		Where("is_closed = ?", false).
		Order("closure_date").
		Find(&lotteries).Error; err != nil {
		return nil, fmt.Errorf("list open lotteries: %w", err)
	}
	return lotteries, nil
}

// CloseAndDrawWinner closes the lottery and, if it has ballots, picks one of
// them uniformly at random as the winner. Closing happens at most once: the
// row is locked for the duration of the draw and the final update only
// applies while the lottery is still open.
func (s *LotteryService) CloseAndDrawWinner(ctx context.Context, lottery *domain.Lottery) (*domain.Lottery, error) {
	if lottery.IsClosed {
		return nil, ErrLotteryAlreadyClosed
	}

	var closed domain.Lottery
	var ballotCount int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&closed, "id = ?", lottery.ID).Error; err != nil {
			if store.IsNotFound(err) {
				return ErrLotteryNotFound
			}
			return fmt.Errorf("lock lottery: %w", err)
		}
		if closed.IsClosed {
			return ErrLotteryAlreadyClosed
		}

		var ballotIDs []string
		if err := tx.Model(&domain.Ballot{}).
			Where("lottery_id = ?", closed.ID).
			Order("id").
			Pluck("id", &ballotIDs).Error; err != nil {
			return fmt.Errorf("list ballots: %w", err)
		}
		ballotCount = len(ballotIDs)

		var winner *string
		if ballotCount > 0 {
			i := s.pick(ballotCount)
			if i < 0 || i >= ballotCount {
				return fmt.Errorf("picker returned %d for %d ballots", i, ballotCount)
			}
			winner = &ballotIDs[i]
		}

		res := tx.Model(&domain.Lottery{}).
			Where("id = ? AND is_closed = ?", closed.ID, false).
			Updates(map[string]any{"is_closed": true, "winning_ballot_id": winner})
		if res.Error != nil {
			return fmt.Errorf("close lottery: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLotteryAlreadyClosed
		}

		closed.IsClosed = true
		closed.WinningBallotID = winner
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncLotteriesClosed(closed.HasWinner())
	entry := s.log.WithFields(logrus.Fields{
		"lottery_id":   closed.ID,
		"closure_date": domain.FormatDate(closed.ClosureDate),
		"ballots":      ballotCount,
	})
	if closed.HasWinner() {
		entry.WithField("winning_ballot_id", *closed.WinningBallotID).Info("Lottery closed with winner")
	} else {
		entry.Info("Lottery closed without ballots")
	}

	return &closed, nil
}

// GetWinningBallot returns the winning ballot of a closed lottery with its
// owner and lottery loaded.
func (s *LotteryService) GetWinningBallot(ctx context.Context, lottery *domain.Lottery) (*domain.Ballot, error) {
	if !lottery.IsClosed {
		return nil, ErrLotteryNotClosed
	}
	if !lottery.HasWinner() {
		return nil, ErrNoWinnerDrawn
	}

	var ballot domain.Ballot
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Lottery").
		First(&ballot, "id = ?", *lottery.WinningBallotID).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrBallotNotFound
		}
		return nil, fmt.Errorf("get winning ballot: %w", err)
	}
	return &ballot, nil
}
