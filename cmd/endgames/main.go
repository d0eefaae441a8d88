package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/ianfab/chess-variant-stats/internal/endgame"
	"github.com/ianfab/chess-variant-stats/internal/epd"
)

type Settings struct {
	Variant         string
	MaxPieces       int
	StablePly       int
	KeepColor       bool
	IgnorePromotion bool
	MinEntropy      float64
	MinFrequency    float64
	MinRelevance    float64
	OrderBy         string
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("endgames failed")
	}
}

func run(logger zerolog.Logger) error {
	var settings = Settings{
		MaxPieces: 4,
		StablePly: 1,
		OrderBy:   "relevance",
	}

	flag.StringVar(&settings.Variant, "variant", settings.Variant, "Only use records of this variant")
	flag.IntVar(&settings.MaxPieces, "max-pieces", settings.MaxPieces, "Max men for an endgame tally")
	flag.IntVar(&settings.StablePly, "stable-ply", settings.StablePly, "Min plies since the last capture")
	flag.BoolVar(&settings.KeepColor, "keep-color", settings.KeepColor, "Do not normalize signature colors")
	flag.BoolVar(&settings.IgnorePromotion, "ignore-promotion", settings.IgnorePromotion, "Treat promoted pieces as their base type")
	flag.Float64Var(&settings.MinEntropy, "min-entropy", settings.MinEntropy, "Min outcome entropy for reporting")
	flag.Float64Var(&settings.MinFrequency, "min-frequency", settings.MinFrequency, "Min frequency for reporting")
	flag.Float64Var(&settings.MinRelevance, "min-relevance", settings.MinRelevance, "Min entropy*frequency for reporting")
	flag.StringVar(&settings.OrderBy, "order-by", settings.OrderBy, "Report ordering: material, frequency, entropy, relevance or all")
	flag.Parse()

	if settings.OrderBy != "all" && !slices.Contains(endgame.OrderChoices, settings.OrderBy) {
		return fmt.Errorf("unknown ordering %q", settings.OrderBy)
	}

	if total, ok := epd.CountLines(flag.Args()); ok {
		logger.Info().Int("lines", total).Msg("corpus size")
	}

	tab, err := endgame.Collect(context.Background(), endgame.Config{
		Files:           flag.Args(),
		Variant:         settings.Variant,
		MaxPieces:       settings.MaxPieces,
		StablePly:       settings.StablePly,
		KeepColor:       settings.KeepColor,
		IgnorePromotion: settings.IgnorePromotion,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	logger.Info().Int("records", tab.Records).Int("endgames", len(tab.Endgames)).
		Msg("corpus tabulated")

	tab.Print(os.Stdout, endgame.ReportConfig{
		MinEntropy:   settings.MinEntropy,
		MinFrequency: settings.MinFrequency,
		MinRelevance: settings.MinRelevance,
		OrderBy:      settings.OrderBy,
	})
	return nil
}
