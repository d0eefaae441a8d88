// Package generator drives an external UCI engine in self play and emits
// one annotated EPD record per visited position.
package generator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ianfab/chess-variant-stats/internal/engine"
	"github.com/ianfab/chess-variant-stats/internal/epd"
)

// consecutive per game failures before a worker gives up on its engine
const maxFailures = 10

var errLimitReached = errors.New("position limit reached")

type Config struct {
	EnginePath  string
	Options     []engine.Option
	Variant     string
	Book        string
	Count       int
	Limits      engine.Limits
	Concurrency int
	Seed        int64
	Output      string
	Overwrite   bool
	Logger      zerolog.Logger
}

func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Limits.Validate(); err != nil {
		return err
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	openings, err := LoadBook(cfg.Book)
	if err != nil {
		return err
	}
	cfg.Logger.Info().
		Int("openings", len(openings)).
		Int("count", cfg.Count).
		Int("concurrency", cfg.Concurrency).
		Str("variant", cfg.Variant).
		Msg("generate started")

	g, ctx := errgroup.WithContext(ctx)

	var games = make(chan []epd.Record, 16)

	g.Go(func() error {
		return writeRecords(ctx, cfg, games)
	})

	var wg = &sync.WaitGroup{}
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		var seed = cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		var rnd = rand.New(rand.NewSource(seed + int64(i)))
		g.Go(func() error {
			defer wg.Done()
			return generateGames(ctx, cfg, openings, rnd, games)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(games)
		return nil
	})

	err = g.Wait()
	if errors.Is(err, errLimitReached) {
		err = nil
	}
	return err
}

// generateGames runs one persistent engine process and plays games until
// the context is cancelled.
func generateGames(
	ctx context.Context,
	cfg Config,
	openings []string,
	rnd *rand.Rand,
	games chan<- []epd.Record,
) error {
	eng, err := engine.New(cfg.EnginePath, cfg.Options, cfg.Variant)
	if err != nil {
		return err
	}
	defer eng.Close()

	var failures = 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		var opening = openings[rnd.Intn(len(openings))]
		var records, err = playGame(ctx, eng, opening, cfg.Variant, cfg.Limits)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			cfg.Logger.Warn().Err(err).Str("opening", opening).Msg("game failed")
			if failures >= maxFailures {
				return err
			}
			continue
		}
		failures = 0
		select {
		case <-ctx.Done():
			return nil
		case games <- records:
		}
	}
}

func writeRecords(
	ctx context.Context,
	cfg Config,
	games <-chan []epd.Record,
) (err error) {
	w, err := epd.NewWriter(cfg.Output, cfg.Overwrite)
	if err != nil {
		return err
	}
	// a failed final flush must fail the run, even after a clean limit stop
	defer func() {
		if cerr := w.Close(); cerr != nil && (err == nil || err == errLimitReached) {
			err = cerr
		}
	}()

	var ticker = time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var gameCount int
	var positionCount int

	var showProgress = func() {
		cfg.Logger.Info().
			Int("games", gameCount).
			Int("positions", positionCount).
			Msg("progress")
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			showProgress()
		case game, gameOk := <-games:
			if !gameOk {
				break LOOP
			}
			gameCount++
			for _, rec := range game {
				if err := w.WriteRecord(rec); err != nil {
					return err
				}
				positionCount++
				if cfg.Count != 0 && positionCount >= cfg.Count {
					showProgress()
					return errLimitReached
				}
			}
		}
	}

	showProgress()
	return nil
}
