package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "staffx",
		Usage:   "Join, clean, pad and export user & employee records",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		kind := shared.ErrorKind(err)
		logger.Fatal(failureMessage(kind), "kind", kind, "error", err)
	}
}

// failureMessage describes a failure of the given kind for the final log line.
func failureMessage(kind string) string {
	switch kind {
	case shared.KindNetwork:
		return "could not fetch data from the source API"
	case shared.KindDecode:
		return "source API returned a body that is not valid JSON"
	case shared.KindSchema:
		return "source data is missing a required column"
	case shared.KindSerialization:
		return "could not write the output file"
	case shared.KindCancelled:
		return "run cancelled before completion"
	case shared.KindConfig:
		return "configuration is invalid"
	case shared.KindInput:
		return "invalid command input"
	default:
		return "unexpected failure"
	}
}
