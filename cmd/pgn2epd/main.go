package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/pgnconv"
)

type Settings struct {
	Input     string
	Variant   string
	Count     int
	Output    string
	Overwrite bool
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("pgn2epd failed")
	}
}

func run(logger zerolog.Logger) error {
	var settings Settings

	flag.StringVar(&settings.Input, "input", settings.Input, "Path to PGN file")
	flag.StringVar(&settings.Variant, "variant", settings.Variant, "Only convert games of this variant")
	flag.IntVar(&settings.Count, "count", settings.Count, "Max games to convert, 0 for all")
	flag.StringVar(&settings.Output, "output", settings.Output, "Output EPD file, stdout when empty")
	flag.BoolVar(&settings.Overwrite, "overwrite", settings.Overwrite, "Overwrite the output file instead of appending")
	flag.Parse()

	if settings.Input == "" {
		return fmt.Errorf("input path is required")
	}
	logger.Info().Str("input", settings.Input).Str("variant", settings.Variant).
		Msg("converting games")

	return pgnconv.Run(context.Background(), pgnconv.Config{
		Input:     settings.Input,
		Variant:   settings.Variant,
		Count:     settings.Count,
		Output:    settings.Output,
		Overwrite: settings.Overwrite,
		Logger:    logger,
	})
}
