// Command lotteryctl drives a running lottery service for demos and
// operations: seeding lotteries and ballots, and closing lotteries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

const usage = `usage: lotteryctl <command> [flags]

commands:
  populate   create lotteries, register users and submit ballots
  close      close the lottery for a date and draw its winner

Run "lotteryctl <command> -h" for command flags.
`

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "populate":
		err = runPopulate(ctx, os.Args[2:])
	case "close":
		err = runClose(ctx, os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		logrus.WithError(err).Fatal(os.Args[1] + " failed")
	}
}
