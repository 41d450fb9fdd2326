package api

import (
	"time" // Timestamps

	"lottery_service/internal/domain" // Domain models
)

// UserResponse is a user without credentials
type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"is_admin"`
	RegisteredAt time.Time `json:"registered_at"`
}

// TokenResponse is returned by the login endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"` // Signed JWT
	TokenType   string `json:"token_type"`   // Always "bearer"
	ExpiresIn   int    `json:"expires_in"`   // Lifetime in seconds
}

// LotteryResponse is a lottery with its closure date as YYYY-MM-DD
type LotteryResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ClosureDate     string    `json:"closure_date"`
	IsClosed        bool      `json:"is_closed"`
	WinningBallotID *string   `json:"winning_ballot_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// BallotResponse is a single ballot
type BallotResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LotteryID   string    `json:"lottery_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// WinnerResponse joins the winning ballot with its owner and lottery
type WinnerResponse struct {
	ID          string        `json:"id"`
	User        WinnerUser    `json:"user"`
	Lottery     WinnerLottery `json:"lottery"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// WinnerUser is the public part of the winning user
type WinnerUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// WinnerLottery identifies the lottery that was won
type WinnerLottery struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ClosureDate string `json:"closure_date"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		RegisteredAt: u.RegisteredAt,
	}
}

func newLotteryResponse(l *domain.Lottery) LotteryResponse {
	return LotteryResponse{
		ID:              l.ID,
		Name:            l.Name,
		ClosureDate:     domain.FormatDate(l.ClosureDate),
		IsClosed:        l.IsClosed,
		WinningBallotID: l.WinningBallotID,
		CreatedAt:       l.CreatedAt,
	}
}

func newLotteryResponses(ls []domain.Lottery) []LotteryResponse {
	resp := make([]LotteryResponse, len(ls))
	for i := range ls {
		resp[i] = newLotteryResponse(&ls[i])
	}
	return resp
}

func newBallotResponse(b *domain.Ballot) BallotResponse {
	return BallotResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		LotteryID:   b.LotteryID,
		SubmittedAt: b.SubmittedAt,
	}
}

func newBallotResponses(bs []domain.Ballot) []BallotResponse {
	resp := make([]BallotResponse, len(bs))
	for i := range bs {
		resp[i] = newBallotResponse(&bs[i])
	}
	return resp
}

// newWinnerResponse expects User and Lottery to be loaded
func newWinnerResponse(b *domain.Ballot) WinnerResponse {
	return WinnerResponse{
		ID: b.ID,
		User: WinnerUser{
			ID:       b.User.ID,
			Username: b.User.Username,
		},
		Lottery: WinnerLottery{
			ID:          b.Lottery.ID,
			Name:        b.Lottery.Name,
			ClosureDate: domain.FormatDate(b.Lottery.ClosureDate),
		},
		SubmittedAt: b.SubmittedAt,
	}
}
