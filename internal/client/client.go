// Package client talks to the lottery HTTP API.
package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lottery_service/internal/api"
	"lottery_service/internal/domain"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use. Login stores the token used by every
// later authenticated call.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{http: cli}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) authedRequest(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetAuthToken(c.Token())
}

// Register creates a regular user. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) (api.UserResponse, error) {
	var user api.UserResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(api.RegisterRequest{Username: username, Email: email, Password: password}).
		SetResult(&user).
		Post("/user/register")
	if err != nil {
		return user, fmt.Errorf("register request: %w", err)
	}
	return user, mapHTTPError(resp)
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var token api.TokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"username": email, "password": password}).
		SetResult(&token).
		Post("/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return err
	}

	c.SetToken(token.AccessToken)
	return nil
}

func (c *Client) ListOpenLotteries(ctx context.Context) ([]api.LotteryResponse, error) {
	var lotteries []api.LotteryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&lotteries).
		Get("/lotteries")
	if err != nil {
		return nil, fmt.Errorf("list lotteries request: %w", err)
	}
	return lotteries, mapHTTPError(resp)
}

func (c *Client) GetLottery(ctx context.Context, date time.Time) (api.LotteryResponse, error) {
	var lottery api.LotteryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("date", domain.FormatDate(date)).
		SetResult(&lottery).
		Get("/lotteries/{date}")
	if err != nil {
		return lottery, fmt.Errorf("get lottery request: %w", err)
	}
	return lottery, mapHTTPError(resp)
}

func (c *Client) GetWinner(ctx context.Context, date time.Time) (api.WinnerResponse, error) {
	var winner api.WinnerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("date", domain.FormatDate(date)).
		SetResult(&winner).
		Get("/lotteries/{date}/winner")
	if err != nil {
		return winner, fmt.Errorf("get winner request: %w", err)
	}
	return winner, mapHTTPError(resp)
}

// CreateLottery requires an admin token. An empty name lets the server pick one.
func (c *Client) CreateLottery(ctx context.Context, date time.Time, name string) (api.LotteryResponse, error) {
	var lottery api.LotteryResponse
	resp, err := c.authedRequest(ctx).
		SetBody(api.CreateLotteryRequest{ClosureDate: domain.FormatDate(date), Name: name}).
		SetResult(&lottery).
		Post("/lotteries")
	if err != nil {
		return lottery, fmt.Errorf("create lottery request: %w", err)
	}
	return lottery, mapHTTPError(resp)
}

// CloseAndDraw requires an admin token.
func (c *Client) CloseAndDraw(ctx context.Context, date time.Time) (api.LotteryResponse, error) {
	var lottery api.LotteryResponse
	resp, err := c.authedRequest(ctx).
		SetQueryParam("lottery_date", domain.FormatDate(date)).
		SetResult(&lottery).
		Post("/lotteries/close_and_draw")
	if err != nil {
		return lottery, fmt.Errorf("close and draw request: %w", err)
	}
	return lottery, mapHTTPError(resp)
}

func (c *Client) SubmitBallot(ctx context.Context, date time.Time) (api.BallotResponse, error) {
	var ballot api.BallotResponse
	resp, err := c.authedRequest(ctx).
		SetQueryParam("lottery_date", domain.FormatDate(date)).
		SetResult(&ballot).
		Post("/ballots")
	if err != nil {
		return ballot, fmt.Errorf("submit ballot request: %w", err)
	}
	return ballot, mapHTTPError(resp)
}

func (c *Client) MyBallots(ctx context.Context) ([]api.BallotResponse, error) {
	var ballots []api.BallotResponse
	resp, err := c.authedRequest(ctx).
		SetResult(&ballots).
		Get("/ballots/mine")
	if err != nil {
		return nil, fmt.Errorf("list ballots request: %w", err)
	}
	return ballots, mapHTTPError(resp)
}
