// Package pieceval fits per piece material values by logistic regression of
// game outcome on material imbalance.
package pieceval

import (
	"context"
	"sort"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

type Feature struct {
	Index int32
	Value float32
}

type Sample struct {
	Features []Feature
	Target   float32
	Men      int // total men on the board, used for phase filtering
}

// Dataset holds the regression samples. Pieces lists the lowercased piece
// letters in feature index order.
type Dataset struct {
	Pieces  []string
	Samples []Sample
}

type FilterConfig struct {
	Variant         string
	StablePly       int
	KeepColor       bool
	IgnorePromotion bool
	Imbalance       string // keep only positions with this imbalance, e.g. Qr
}

// Load streams the corpus and builds one sample per decisive, materially
// stable position: the per piece letter diffs from the point of view of the
// side to move (White's with KeepColor) against the game outcome from the
// same point of view.
func Load(ctx context.Context, files []string, cfg FilterConfig) (*Dataset, error) {
	var index = make(map[string]int)
	var samples []Sample

	var err = epd.WalkFiles(ctx, files, func(rec epd.Record) error {
		if v := rec.Variant(""); cfg.Variant != "" && v != "" && v != cfg.Variant {
			return nil
		}
		var result = rec.Result()
		if !epd.IsDecisive(result) || rec.Hmvc() < cfg.StablePly {
			return nil
		}
		var pieces = epd.Pieces(epd.BoardField(rec.Fen), cfg.IgnorePromotion)
		if cfg.Imbalance != "" && !HasImbalance(pieces, cfg.Imbalance) {
			return nil
		}

		var blackPov = epd.SideToMove(rec.Fen) == "b" && !cfg.KeepColor
		var povResult = result
		if blackPov {
			povResult = epd.FlipResult(result)
		}
		var target, _ = epd.Score(povResult)

		var sample = Sample{Target: float32(target), Men: len(pieces)}
		for letter, diff := range epd.PieceDiffs(pieces) {
			var i, ok = index[letter]
			if !ok {
				i = len(index)
				index[letter] = i
			}
			if diff == 0 {
				continue
			}
			if blackPov {
				diff = -diff
			}
			sample.Features = append(sample.Features, Feature{
				Index: int32(i),
				Value: float32(diff),
			})
		}
		samples = append(samples, sample)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newDataset(index, samples), nil
}

// newDataset remaps feature indices into sorted piece letter order so the
// fit does not depend on corpus order.
func newDataset(index map[string]int, samples []Sample) *Dataset {
	var pieces = make([]string, 0, len(index))
	for letter := range index {
		pieces = append(pieces, letter)
	}
	sort.Strings(pieces)

	var remap = make([]int32, len(index))
	for i, letter := range pieces {
		remap[index[letter]] = int32(i)
	}
	for s := range samples {
		for f := range samples[s].Features {
			samples[s].Features[f].Index = remap[samples[s].Features[f].Index]
		}
	}
	return &Dataset{Pieces: pieces, Samples: samples}
}

// FilterPhase keeps only samples inside the given phase bucket, where the
// game start is taken as the largest men count seen in the corpus.
func (d *Dataset) FilterPhase(phases, phase int) {
	if phases <= 0 {
		return
	}
	var startCount = 0
	for i := range d.Samples {
		if d.Samples[i].Men > startCount {
			startCount = d.Samples[i].Men
		}
	}
	var kept = d.Samples[:0]
	for _, sample := range d.Samples {
		if GamePhase(phases, startCount, sample.Men) == phase {
			kept = append(kept, sample)
		}
	}
	d.Samples = kept
}
