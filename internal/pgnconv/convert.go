// Package pgnconv converts PGN game collections into the annotated EPD
// corpus format shared by the analyzers.
package pgnconv

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

type Config struct {
	Input     string
	Variant   string // convert only games of this variant, empty for all
	Count     int    // max games to convert, 0 for all
	Output    string
	Overwrite bool
	Logger    zerolog.Logger
}

func Run(ctx context.Context, cfg Config) error {
	file, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := epd.NewWriter(cfg.Output, cfg.Overwrite)
	if err != nil {
		return err
	}
	if err := convert(ctx, cfg, file, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func convert(ctx context.Context, cfg Config, r io.Reader, w *epd.Writer) error {
	var ticker = time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var gameCount int
	var skipCount int
	var positionCount int

	var scanner = chess.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ticker.C:
			cfg.Logger.Info().
				Int("games", gameCount).
				Int("positions", positionCount).
				Msg("progress")
		default:
		}

		var game = scanner.Next()
		var variant = normalizeVariant(tagValue(game, "Variant"))
		if cfg.Variant != "" && variant != cfg.Variant {
			skipCount++
			continue
		}
		n, err := writeGame(game, variant, w)
		if err != nil {
			return err
		}
		if n == 0 {
			skipCount++
			continue
		}
		gameCount++
		positionCount += n
		if cfg.Count != 0 && gameCount >= cfg.Count {
			break
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	cfg.Logger.Info().
		Int("games", gameCount).
		Int("skipped", skipCount).
		Int("positions", positionCount).
		Msg("convert finished")
	return nil
}

// writeGame emits one record per mainline position, the starting position
// included, and returns the number of records written.
func writeGame(game *chess.Game, variant string, w *epd.Writer) (int, error) {
	var positions = game.Positions()
	if len(positions) < 2 {
		return 0, nil
	}
	var result = game.Outcome().String()
	var gameID = uuid.NewString()

	var materialKey = epd.MaterialKey(positions[0].String())
	var lastChange = 0
	var n = 0
	for i, pos := range positions {
		var fen = pos.String()
		if key := epd.MaterialKey(fen); key != materialKey {
			materialKey = key
			lastChange = i
		}
		var rec = epd.Record{
			Fen: fen,
			Ops: []epd.Op{
				{Key: epd.OpVariant, Value: variant},
				{Key: epd.OpHmvc, Value: fmt.Sprint(i - lastChange)},
				{Key: epd.OpResult, Value: result},
				{Key: epd.OpGame, Value: gameID},
			},
		}
		if err := w.WriteRecord(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func tagValue(game *chess.Game, key string) string {
	var pair = game.GetTagPair(key)
	if pair == nil {
		return ""
	}
	return pair.Value
}

// normalizeVariant maps a PGN Variant tag to a UCI variant name: lowercased,
// spaces stripped, a 960 suffix reduced to the base variant, Standard and
// the empty tag mapped to chess.
func normalizeVariant(tag string) string {
	var v = strings.ToLower(strings.ReplaceAll(tag, " ", ""))
	v = strings.TrimSuffix(v, "960")
	switch v {
	case "", "standard", "fromposition":
		return "chess"
	}
	return v
}
