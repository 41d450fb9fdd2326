package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"lottery_service/internal/domain"
)

type closeOptions struct {
	commonFlags
	date dateFlag
}

func runClose(ctx context.Context, args []string, out io.Writer) error {
	opts := closeOptions{date: dateFlag{domain.DateOf(time.Now()).AddDate(0, 0, -1)}}

	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	opts.commonFlags.register(fs)
	fs.Var(&opts.date, "date", "closure date of the lottery to close, YYYY-MM-DD (default yesterday)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return closeLottery(ctx, opts, out)
}

func closeLottery(ctx context.Context, opts closeOptions, out io.Writer) error {
	admin := opts.newClient()
	if err := admin.Login(ctx, opts.adminEmail, opts.adminPassword); err != nil {
		return fmt.Errorf("admin login: %w", err)
	}

	closed, err := admin.CloseAndDraw(ctx, opts.date.Time)
	if err != nil {
		return fmt.Errorf("close lottery for %s: %w", domain.FormatDate(opts.date.Time), err)
	}
	if closed.WinningBallotID == nil {
		fmt.Fprintf(out, "lottery %s (%s) closed: no winner\n", closed.Name, closed.ClosureDate)
		return nil
	}

	winner, err := admin.GetWinner(ctx, opts.date.Time)
	if err != nil {
		return fmt.Errorf("get winner for %s: %w", closed.ClosureDate, err)
	}
	fmt.Fprintf(out, "lottery %s (%s) closed: winning ballot %s by %s\n",
		closed.Name, closed.ClosureDate, winner.ID, winner.User.Username)
	return nil
}
