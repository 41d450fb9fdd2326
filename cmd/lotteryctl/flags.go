package main

import (
	"flag"
	"os"
	"time"

	"lottery_service/internal/client"
	"lottery_service/internal/domain"
)

// commonFlags are shared by every command
type commonFlags struct {
	baseURL       string
	adminEmail    string
	adminPassword string
	timeout       time.Duration
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.baseURL, "url", envOr("LOTTERY_URL", "http://localhost:8000"), "lottery service base URL")
	fs.StringVar(&f.adminEmail, "admin-email", os.Getenv("LOTTERY_ADMIN_EMAIL"), "admin login email")
	fs.StringVar(&f.adminPassword, "admin-password", os.Getenv("LOTTERY_ADMIN_PASSWORD"), "admin password")
	fs.DurationVar(&f.timeout, "timeout", 15*time.Second, "per request timeout")
}

func (f *commonFlags) newClient() *client.Client {
	return client.New(client.Config{BaseURL: f.baseURL, Timeout: f.timeout})
}

// dateFlag parses YYYY-MM-DD values
type dateFlag struct {
	time.Time
}

func (d *dateFlag) String() string {
	if d.IsZero() {
		return ""
	}
	return domain.FormatDate(d.Time)
}

func (d *dateFlag) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
