package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/epd"
	"github.com/ianfab/chess-variant-stats/internal/pieceval"
)

type Settings struct {
	Variant         string
	StablePly       int
	KeepColor       bool
	IgnorePromotion bool
	Imbalance       string
	GamePhases      int
	GamePhase       int
	RawScale        bool
	EloScale        bool
	NaturalScale    bool
	Epochs          int
	Concurrency     int
	Seed            int64
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("piecevalues failed")
	}
}

func run(logger zerolog.Logger) error {
	var settings = Settings{
		StablePly:   1,
		Epochs:      100,
		Concurrency: max(1, runtime.NumCPU()/2),
		Seed:        1,
	}

	flag.StringVar(&settings.Variant, "variant", settings.Variant, "Only use records of this variant")
	flag.IntVar(&settings.StablePly, "stable-ply", settings.StablePly, "Min plies since the last capture")
	flag.BoolVar(&settings.KeepColor, "keep-color", settings.KeepColor, "Fit from White's point of view instead of the side to move")
	flag.BoolVar(&settings.IgnorePromotion, "ignore-promotion", settings.IgnorePromotion, "Treat promoted pieces as their base type")
	flag.StringVar(&settings.Imbalance, "imbalance", settings.Imbalance, "Only use positions with this imbalance, e.g. Qrr")
	flag.IntVar(&settings.GamePhases, "game-phases", settings.GamePhases, "Number of game phase buckets, 0 to disable")
	flag.IntVar(&settings.GamePhase, "game-phase", settings.GamePhase, "Phase bucket to fit, 0 is the opening")
	flag.BoolVar(&settings.RawScale, "raw-scale", settings.RawScale, "Report raw logistic coefficients")
	flag.BoolVar(&settings.EloScale, "elo-scale", settings.EloScale, "Report values in Elo")
	flag.BoolVar(&settings.NaturalScale, "natural-scale", settings.NaturalScale, "Report values where 1 unit is 200 Elo")
	flag.IntVar(&settings.Epochs, "epochs", settings.Epochs, "Training epochs")
	flag.IntVar(&settings.Concurrency, "concurrency", settings.Concurrency, "Training threads")
	flag.Int64Var(&settings.Seed, "seed", settings.Seed, "Shuffle seed")
	flag.Parse()

	scale, err := chooseScale(settings)
	if err != nil {
		return err
	}

	if total, ok := epd.CountLines(flag.Args()); ok {
		logger.Info().Int("lines", total).Msg("corpus size")
	}

	dataset, err := pieceval.Load(context.Background(), flag.Args(), pieceval.FilterConfig{
		Variant:         settings.Variant,
		StablePly:       settings.StablePly,
		KeepColor:       settings.KeepColor,
		IgnorePromotion: settings.IgnorePromotion,
		Imbalance:       settings.Imbalance,
	})
	if err != nil {
		return err
	}
	if settings.GamePhases > 0 {
		dataset.FilterPhase(settings.GamePhases, settings.GamePhase)
	}
	logger.Info().Int("samples", len(dataset.Samples)).
		Strs("pieces", dataset.Pieces).Msg("dataset loaded")

	model, err := pieceval.Train(dataset, pieceval.TrainConfig{
		Epochs:      settings.Epochs,
		Concurrency: settings.Concurrency,
		Seed:        settings.Seed,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	pieceval.PrintValues(os.Stdout, dataset, model, scale, settings.KeepColor)
	return nil
}

func chooseScale(settings Settings) (pieceval.Scale, error) {
	var chosen = 0
	var scale = pieceval.ScaleNormalized
	if settings.RawScale {
		chosen++
		scale = pieceval.ScaleRaw
	}
	if settings.EloScale {
		chosen++
		scale = pieceval.ScaleElo
	}
	if settings.NaturalScale {
		chosen++
		scale = pieceval.ScaleNatural
	}
	if chosen > 1 {
		return scale, fmt.Errorf("at most one of -raw-scale, -elo-scale and -natural-scale")
	}
	return scale, nil
}
