package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	store "lottery_service/internal/db"
	"lottery_service/internal/domain"
	"lottery_service/internal/metrics"
	"lottery_service/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, credential checks and admin bootstrap
type UserService struct {
	db       *gorm.DB
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	now      func() time.Time
	hashCost int
}

// UserOption configures a UserService
type UserOption func(*UserService)

// WithHashCost sets the bcrypt cost; tests use bcrypt.MinCost
func WithHashCost(cost int) UserOption {
	return func(s *UserService) { s.hashCost = cost }
}

// WithUserMetrics records registration counters on m
func WithUserMetrics(m *metrics.Metrics) UserOption {
	return func(s *UserService) { s.metrics = m }
}

func NewUserService(db *gorm.DB, log logrus.FieldLogger, opts ...UserOption) *UserService {
	s := &UserService{
		db:       db,
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a regular user. Emails are unique and matched exactly.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := s.create(ctx, username, email, password, false)
	if err != nil {
		return nil, err
	}

	s.metrics.IncUsersRegistered()
	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return user, nil
}

// Authenticate returns the user owning email if password matches. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.getByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.CheckPassword(user.HashedPassword, password)
	if err != nil {
		return nil, fmt.Errorf("check password of user %s: %w", user.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns the user with the given id
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// EnsureAdmin creates an administrator with the given email unless a user
// with that email already exists. It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.User, bool, error) {
	existing, err := s.getByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin {
			s.log.WithField("user_id", existing.ID).Warn("Bootstrap admin email belongs to a regular user")
		}
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	admin, err := s.create(ctx, username, email, password, true)
	if errors.Is(err, ErrUserAlreadyExists) {
		// Another instance bootstrapped concurrently
		existing, err := s.getByEmail(ctx, email)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  admin.ID,
		"username": admin.Username,
	}).Info("Admin user bootstrapped")

	return admin, true, nil
}

func (s *UserService) create(ctx context.Context, username, email, password string, isAdmin bool) (*domain.User, error) {
	if _, err := s.getByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password, s.hashCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		IsAdmin:        isAdmin,
		RegisteredAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}
