package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/ianfab/chess-variant-stats/internal/engine"
	"github.com/ianfab/chess-variant-stats/internal/generator"
)

type Settings struct {
	Engine      string
	ConfigPath  string
	Options     optionList
	Variant     string
	Count       int
	Depth       int
	MoveTime    time.Duration
	Book        string
	Output      string
	Overwrite   bool
	Concurrency int
	Seed        int64
}

// optionList collects repeated -ucioption name=value flags.
type optionList []engine.Option

func (l *optionList) String() string {
	var parts = make([]string, len(*l))
	for i, opt := range *l {
		parts[i] = opt.Name + "=" + opt.Value
	}
	return strings.Join(parts, ",")
}

func (l *optionList) Set(s string) error {
	name, value, found := strings.Cut(s, "=")
	if !found || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*l = append(*l, engine.Option{Name: name, Value: value})
	return nil
}

// fileConfig mirrors the YAML engine configuration. Command line flags take
// precedence over it.
type fileConfig struct {
	Engine   string          `yaml:"engine"`
	Options  []engine.Option `yaml:"options"`
	Depth    int             `yaml:"depth"`
	MoveTime int             `yaml:"movetime"` // milliseconds
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("generate failed")
	}
}

func run(logger zerolog.Logger) error {
	var settings = Settings{
		Variant:     "chess",
		Count:       1000,
		Concurrency: max(1, runtime.NumCPU()/2),
	}

	flag.StringVar(&settings.Engine, "engine", settings.Engine, "Path to UCI engine binary")
	flag.StringVar(&settings.ConfigPath, "config", settings.ConfigPath, "Path to YAML engine config")
	flag.Var(&settings.Options, "ucioption", "UCI option as name=value, repeatable")
	flag.StringVar(&settings.Variant, "variant", settings.Variant, "UCI variant name")
	flag.IntVar(&settings.Count, "count", settings.Count, "Number of positions to generate")
	flag.IntVar(&settings.Depth, "depth", settings.Depth, "Search depth limit")
	flag.DurationVar(&settings.MoveTime, "movetime", settings.MoveTime, "Search time limit per move")
	flag.StringVar(&settings.Book, "book", settings.Book, "Path to EPD opening book")
	flag.StringVar(&settings.Output, "output", settings.Output, "Output EPD file, stdout when empty")
	flag.BoolVar(&settings.Overwrite, "overwrite", settings.Overwrite, "Overwrite the output file instead of appending")
	flag.IntVar(&settings.Concurrency, "concurrency", settings.Concurrency, "Number of engine workers")
	flag.Int64Var(&settings.Seed, "seed", settings.Seed, "Random seed, 0 for time based")
	flag.Parse()

	if settings.ConfigPath != "" {
		if err := applyFileConfig(&settings); err != nil {
			return err
		}
	}
	if settings.Engine == "" {
		return fmt.Errorf("engine path is required")
	}
	logger.Info().Str("engine", settings.Engine).Str("variant", settings.Variant).
		Int("count", settings.Count).Int("concurrency", settings.Concurrency).
		Msg("generating positions")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return generator.Run(ctx, generator.Config{
		EnginePath:  settings.Engine,
		Options:     settings.Options,
		Variant:     settings.Variant,
		Book:        settings.Book,
		Count:       settings.Count,
		Limits:      engine.Limits{Depth: settings.Depth, MoveTime: settings.MoveTime},
		Concurrency: settings.Concurrency,
		Seed:        settings.Seed,
		Output:      settings.Output,
		Overwrite:   settings.Overwrite,
		Logger:      logger,
	})
}

func applyFileConfig(settings *Settings) error {
	data, err := os.ReadFile(settings.ConfigPath)
	if err != nil {
		return err
	}
	var cfg fileConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return fmt.Errorf("parse %v: %w", settings.ConfigPath, err)
	}
	if settings.Engine == "" {
		settings.Engine = cfg.Engine
	}
	settings.Options = append(cfg.Options, settings.Options...)
	if settings.Depth == 0 && settings.MoveTime == 0 {
		settings.Depth = cfg.Depth
		settings.MoveTime = time.Duration(cfg.MoveTime) * time.Millisecond
	}
	return nil
}
