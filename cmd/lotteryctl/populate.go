package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"lottery_service/internal/client"
	"lottery_service/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
)

type populateOptions struct {
	commonFlags
	from     dateFlag
	days     int
	users    int
	ballots  int
	password string
}

func runPopulate(ctx context.Context, args []string) error {
	opts := populateOptions{from: dateFlag{domain.DateOf(time.Now()).AddDate(0, 0, 1)}}

	fs := flag.NewFlagSet("populate", flag.ContinueOnError)
	opts.commonFlags.register(fs)
	fs.Var(&opts.from, "from", "closure date of the first lottery, YYYY-MM-DD (default tomorrow)")
	fs.IntVar(&opts.days, "days", 7, "number of consecutive daily lotteries to create")
	fs.IntVar(&opts.users, "users", 10, "number of users to register")
	fs.IntVar(&opts.ballots, "ballots", 3, "ballots per user, spread over random lotteries")
	fs.StringVar(&opts.password, "user-password", "password123", "password given to generated users")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.days < 1 || opts.users < 0 || opts.ballots < 0 {
		return errors.New("days must be positive, users and ballots not negative")
	}

	return populate(ctx, opts, logrus.StandardLogger())
}

func populate(ctx context.Context, opts populateOptions, log logrus.FieldLogger) error {
	admin := opts.newClient()
	if err := admin.Login(ctx, opts.adminEmail, opts.adminPassword); err != nil {
		return fmt.Errorf("admin login: %w", err)
	}

	dates := make([]time.Time, 0, opts.days)
	for i := range opts.days {
		date := opts.from.AddDate(0, 0, i)
		lottery, err := admin.CreateLottery(ctx, date, "")
		if errors.Is(err, client.ErrBadRequest) {
			// Rejected dates are fine when a lottery already closes that day
			existing, getErr := admin.GetLottery(ctx, date)
			if getErr != nil {
				return fmt.Errorf("create lottery for %s: %w", domain.FormatDate(date), err)
			}
			log.WithFields(logrus.Fields{"closure_date": existing.ClosureDate, "name": existing.Name}).Info("Lottery already exists")
		} else if err != nil {
			return fmt.Errorf("create lottery for %s: %w", domain.FormatDate(date), err)
		} else {
			log.WithFields(logrus.Fields{"closure_date": lottery.ClosureDate, "name": lottery.Name}).Info("Lottery created")
		}
		dates = append(dates, date)
	}

	submitted := 0
	for range opts.users {
		username := strings.ToLower(gofakeit.Username())
		email := strings.ToLower(fmt.Sprintf("%s.%s@example.com", username, gofakeit.LetterN(6)))

		player := opts.newClient()
		if _, err := player.Register(ctx, username, email, opts.password); err != nil {
			return fmt.Errorf("register %s: %w", email, err)
		}
		if err := player.Login(ctx, email, opts.password); err != nil {
			return fmt.Errorf("login %s: %w", email, err)
		}

		for range opts.ballots {
			date := dates[rand.IntN(len(dates))]
			if _, err := player.SubmitBallot(ctx, date); err != nil {
				return fmt.Errorf("submit ballot for %s: %w", email, err)
			}
			submitted++
		}
		log.WithFields(logrus.Fields{"username": username, "email": email}).Info("User registered")
	}

	log.WithFields(logrus.Fields{
		"lotteries": len(dates),
		"users":     opts.users,
		"ballots":   submitted,
	}).Info("Populate finished")
	return nil
}
