package pieceval

import (
	"fmt"
	"io"
	"math"
	"sort"
)

type Scale int

const (
	// ScaleNormalized divides by the smallest coefficient magnitude above
	// 0.1, so the weakest piece is worth about 1.
	ScaleNormalized Scale = iota
	ScaleRaw
	// ScaleNatural: 1 unit equals 200 Elo.
	ScaleNatural
	// ScaleElo: values in Elo equivalents.
	ScaleElo
)

func (s Scale) norm(coefficients []float64) float64 {
	switch s {
	case ScaleRaw:
		return 1
	case ScaleNatural:
		return math.Ln10 / 2
	case ScaleElo:
		return math.Ln10 / 400
	}
	var norm = math.Inf(1)
	for _, v := range coefficients {
		if abs := math.Abs(v); abs > 0.1 && abs < norm {
			norm = abs
		}
	}
	if math.IsInf(norm, 1) {
		return 1
	}
	return norm
}

// PrintValues writes the fitted piece values sorted by strength, the
// intercept last: its label is "white" when color was kept, otherwise the
// fit was from the side to move point of view.
func PrintValues(w io.Writer, dataset *Dataset, model *Model, scale Scale, keepColor bool) {
	var coefficients = model.Coefficients()
	var norm = scale.norm(coefficients)

	var order = make([]int, len(coefficients))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return coefficients[order[i]] > coefficients[order[j]]
	})

	for _, i := range order {
		fmt.Fprintf(w, "%v %.2f\n", dataset.Pieces[i], coefficients[i]/norm)
	}
	var interceptLabel = "move"
	if keepColor {
		interceptLabel = "white"
	}
	fmt.Fprintf(w, "%v %.2f\n", interceptLabel, model.Intercept()/norm)
}
