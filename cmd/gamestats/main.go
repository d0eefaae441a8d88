package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/stats"
)

type Settings struct {
	Variant         string
	BranchingFactor bool
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("gamestats failed")
	}
}

func run(logger zerolog.Logger) error {
	var settings Settings

	flag.StringVar(&settings.Variant, "variant", settings.Variant, "Variant of unannotated records")
	flag.BoolVar(&settings.BranchingFactor, "branching-factor", settings.BranchingFactor, "Also compute legal move counts (slow)")
	flag.Parse()

	report, err := stats.Collect(context.Background(), stats.Config{
		Files:           flag.Args(),
		Variant:         settings.Variant,
		BranchingFactor: settings.BranchingFactor,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	report.Print(os.Stdout)
	return nil
}
