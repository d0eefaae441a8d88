// Package stats computes basic corpus statistics: result distribution,
// game length and branching factor.
package stats

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

type Config struct {
	Files           []string
	Variant         string
	BranchingFactor bool
	Logger          zerolog.Logger
}

type Report struct {
	// Results maps a game result to the number of distinct games that
	// ended with it.
	Results map[string]int
	// GameLengths is the final fullmove number of each game.
	GameLengths []int
	// BranchingFactors is the legal move count of each parseable position.
	BranchingFactors []int
	// UnparseablePositions counts positions skipped during branching
	// factor calculation.
	UnparseablePositions int
}

func Collect(ctx context.Context, cfg Config) (*Report, error) {
	var report = &Report{Results: make(map[string]int)}
	var gameLength = make(map[string]int)
	var gameResult = make(map[string]string)

	var err = epd.WalkFiles(ctx, cfg.Files, func(rec epd.Record) error {
		if rec.Variant(cfg.Variant) == "" {
			return fmt.Errorf("variant neither annotated in EPD nor given as argument")
		}
		if game, ok := rec.Op(epd.OpGame); ok {
			if n := rec.FullmoveNumber(); n > gameLength[game] {
				gameLength[game] = n
			}
			if result := rec.Result(); result != "" && result != epd.GameResultNone {
				gameResult[game] = result
			}
		}
		if cfg.BranchingFactor {
			var moves, ok = legalMoveCount(rec.Fen)
			if !ok {
				report.UnparseablePositions++
			} else {
				report.BranchingFactors = append(report.BranchingFactors, moves)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, result := range gameResult {
		report.Results[result]++
	}
	for _, length := range gameLength {
		report.GameLengths = append(report.GameLengths, length)
	}
	return report, nil
}

func legalMoveCount(fen string) (int, bool) {
	var fenOption, err = chess.FEN(fen)
	if err != nil {
		return 0, false
	}
	return len(chess.NewGame(fenOption).ValidMoves()), true
}

// Summary is the median, mean and max of a sample.
type Summary struct {
	Median float64
	Mean   float64
	Max    int
}

func Summarize(values []int) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	var sorted = make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	var sum int
	var max = sorted[len(sorted)-1]
	for _, v := range sorted {
		sum += v
	}
	var median float64
	if n := len(sorted); n%2 == 1 {
		median = float64(sorted[n/2])
	} else {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return Summary{
		Median: median,
		Mean:   float64(sum) / float64(len(sorted)),
		Max:    max,
	}, true
}

// resultOrder sorts 1-0 before 0-1 before 1/2-1/2.
var resultOrder = map[string]int{
	epd.GameResultWhiteWin: 0,
	epd.GameResultBlackWin: 1,
	epd.GameResultDraw:     2,
}

func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "# Results")
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "No data")
	} else {
		var results = make([]string, 0, len(r.Results))
		var total = 0
		for result, count := range r.Results {
			results = append(results, result)
			total += count
		}
		sort.Slice(results, func(i, j int) bool {
			return resultOrder[results[i]] < resultOrder[results[j]]
		})
		for _, result := range results {
			fmt.Fprintf(w, "%v: %.2f%%\n", result,
				100*float64(r.Results[result])/float64(total))
		}
	}

	fmt.Fprintln(w, "\n# Game length")
	printSummary(w, r.GameLengths)

	fmt.Fprintln(w, "\n# Branching factor")
	printSummary(w, r.BranchingFactors)
	if r.UnparseablePositions != 0 {
		fmt.Fprintf(w, "Skipped positions: %v\n", r.UnparseablePositions)
	}
}

func printSummary(w io.Writer, values []int) {
	var summary, ok = Summarize(values)
	if !ok {
		fmt.Fprintln(w, "No data")
		return
	}
	fmt.Fprintf(w, "Median: %v\nMean: %.1f\nMax: %v\n",
		summary.Median, summary.Mean, summary.Max)
}
