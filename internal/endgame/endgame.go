// Package endgame tabulates game outcomes per endgame material signature
// and derives mating material statistics from them.
package endgame

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

// Outcome indices of a WLD tally, from the point of view of the color
// normalized signature.
const (
	Win = iota
	Loss
	Draw
)

type WLD [3]int

func (wld WLD) Total() int {
	return wld[Win] + wld[Loss] + wld[Draw]
}

func (wld WLD) Decisive() int {
	return wld[Win] + wld[Loss]
}

// Entropy is the information theoretical entropy of the outcome
// distribution, in bits. Trivial endgames score near zero.
func (wld WLD) Entropy() float64 {
	var norm = float64(wld.Total())
	if norm == 0 {
		return 0
	}
	var entropy float64
	for _, count := range wld {
		if count > 0 {
			var p = float64(count) / norm
			entropy -= math.Log2(p) * p
		}
	}
	return entropy
}

type Config struct {
	Files           []string
	Variant         string
	MaxPieces       int
	StablePly       int
	KeepColor       bool
	IgnorePromotion bool
	Logger          zerolog.Logger
}

// Entry is the tally of one normalized endgame signature.
type Entry struct {
	Signature []string
	Count     int
	Results   WLD
}

// Tabulation is the aggregate over a corpus.
type Tabulation struct {
	// Endgames maps a signature string to its tally, for positions with
	// at most MaxPieces men.
	Endgames map[string]*Entry
	// PieceScore is the weighted WLD mass per lowercased piece letter,
	// counted for the side owning the surplus of that piece.
	PieceScore map[string]*[3]float64
	// Royal is the piece multiset present in every observed signature.
	Royal map[string]int
	// Records is the number of corpus positions read, the frequency
	// denominator.
	Records int
}

func Collect(ctx context.Context, cfg Config) (*Tabulation, error) {
	var tab = &Tabulation{
		Endgames:   make(map[string]*Entry),
		PieceScore: make(map[string]*[3]float64),
	}

	var err = epd.WalkFiles(ctx, cfg.Files, func(rec epd.Record) error {
		if v := rec.Variant(""); cfg.Variant != "" && v != "" && v != cfg.Variant {
			return nil
		}
		tab.Records++
		var pieces = epd.Pieces(epd.BoardField(rec.Fen), cfg.IgnorePromotion)
		var sig = epd.Signature(pieces)
		var result = rec.Result()

		if !cfg.KeepColor && epd.SwapColorsNeeded(sig) {
			sig = epd.SwapColors(sig)
			result = epd.FlipResult(result)
		}

		tab.observeRoyal(sig)

		if rec.Hmvc() < cfg.StablePly {
			return nil
		}
		if len(sig) <= cfg.MaxPieces {
			var key = epd.SignatureString(sig)
			var entry = tab.Endgames[key]
			if entry == nil {
				entry = &Entry{Signature: sig}
				tab.Endgames[key] = entry
			}
			entry.Count++
			if i, ok := wldIndex(result); ok {
				entry.Results[i]++
			}
		}
		if _, ok := wldIndex(result); ok {
			tab.scorePieces(sig, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func wldIndex(result string) (int, bool) {
	switch result {
	case epd.GameResultWhiteWin:
		return Win, true
	case epd.GameResultBlackWin:
		return Loss, true
	case epd.GameResultDraw:
		return Draw, true
	}
	return 0, false
}

// observeRoyal narrows the royal piece candidates to the pieces present in
// every signature; a royal piece can never be captured.
func (tab *Tabulation) observeRoyal(sig []string) {
	var counts = multiset(sig)
	if tab.Royal == nil {
		tab.Royal = counts
		return
	}
	for piece, n := range tab.Royal {
		if m := counts[piece]; m < n {
			if m == 0 {
				delete(tab.Royal, piece)
			} else {
				tab.Royal[piece] = m
			}
		}
	}
}

// scorePieces assigns the game outcome to each imbalanced piece letter,
// weighted down sharply for positions with a large total imbalance so that
// clean single piece advantages dominate the strength estimate.
func (tab *Tabulation) scorePieces(sig []string, result string) {
	var diffs = epd.PieceDiffs(sig)
	var totalDiff = 0
	for _, diff := range diffs {
		totalDiff += abs(diff)
	}
	var weightDenom = 1 + math.Pow(float64(totalDiff), 10)
	for letter, diff := range diffs {
		var score = tab.PieceScore[letter]
		if score == nil {
			score = &[3]float64{}
			tab.PieceScore[letter] = score
		}
		// balanced letters, royals in practice, still get an entry so they
		// appear in the strength ordering
		if diff == 0 {
			continue
		}
		var povResult = result
		if diff < 0 && epd.IsDecisive(result) {
			povResult = epd.FlipResult(result)
		}
		var i, _ = wldIndex(povResult)
		score[i] += float64(abs(diff)) / weightDenom
	}
}

// LossRate is the fraction of decisive outcomes the holder of the piece
// surplus lost: low means strong.
func (tab *Tabulation) LossRate(letter string) float64 {
	var score = tab.PieceScore[letter]
	if score == nil {
		return 0
	}
	var decisive = score[Win] + score[Loss]
	if decisive < 1 {
		decisive = 1
	}
	return score[Loss] / decisive
}

func multiset(sig []string) map[string]int {
	var counts = make(map[string]int)
	for _, p := range sig {
		counts[p]++
	}
	return counts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
