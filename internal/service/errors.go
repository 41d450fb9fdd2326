package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them, so callers can branch with errors.Is on either the kind or the
// concrete error.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Lottery errors
var (
	ErrLotteryNotFound      = fmt.Errorf("lottery %w", ErrNotFound)
	ErrLotteryAlreadyExists = fmt.Errorf("a lottery for this closure date %w", ErrAlreadyExists)
	ErrInvalidClosureDate   = fmt.Errorf("%w: cannot create a lottery in the past", ErrInvalidInput)
	ErrLotteryAlreadyClosed = fmt.Errorf("%w: lottery is already closed", ErrInvalidState)
	ErrLotteryNotClosed     = fmt.Errorf("%w: lottery is not closed", ErrInvalidState)
	ErrNoWinnerDrawn        = fmt.Errorf("%w: no ballots were submitted, no winner", ErrInvalidState)
)

// Ballot errors
var (
	ErrBallotNotFound = fmt.Errorf("ballot %w", ErrNotFound)
)

// User errors
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists  = fmt.Errorf("user with this email %w", ErrAlreadyExists)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
)

// Access policy errors
var (
	ErrAdminRequired  = fmt.Errorf("%w: admin access required", ErrForbidden)
	ErrAdminForbidden = fmt.Errorf("%w: admins cannot submit ballots", ErrForbidden)
)
