package pieceval

import (
	"strings"
	"unicode"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

// HasImbalance reports whether the board has at least the material
// imbalance described by spec: uppercase letters are pieces White must be
// up, lowercase pieces Black must be up, repeated letters add up.
// E.g. "Qrr" matches positions where White is up a queen against two rooks.
func HasImbalance(pieces []string, spec string) bool {
	var required = make(map[string]int)
	for _, r := range spec {
		if unicode.IsUpper(r) {
			required[string(unicode.ToLower(r))]++
		} else {
			required[string(r)]--
		}
	}

	var diffs = epd.PieceDiffs(pieces)
	for letter, req := range required {
		var diff = diffs[strings.ToLower(letter)]
		if req > 0 && diff < req {
			return false
		}
		if req < 0 && diff > req {
			return false
		}
	}
	return true
}

// GamePhase buckets a men count into one of phases buckets, 0 being the
// opening. startCount is the men count of the starting position.
func GamePhase(phases, startCount, count int) int {
	if phases <= 0 || startCount <= 0 {
		return 0
	}
	var phase = (startCount - count) * phases / startCount
	if phase < 0 {
		phase = 0
	}
	if phase >= phases {
		phase = phases - 1
	}
	return phase
}
