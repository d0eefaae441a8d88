package pieceval

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func pieces(s string) []string {
	return strings.Split(s, "")
}

func TestHasImbalance(t *testing.T) {
	// single piece
	if !HasImbalance(pieces("KQkr"), "Qr") {
		t.Error("KQkr Qr")
	}
	if !HasImbalance(pieces("KQRkrr"), "Qr") {
		t.Error("KQRkrr Qr")
	}
	if !HasImbalance(pieces("KQQkrr"), "Qr") {
		t.Error("KQQkrr Qr")
	}
	if HasImbalance(pieces("KQk"), "Qr") {
		t.Error("KQk Qr")
	}
	if HasImbalance(pieces("KQkr"), "Rq") {
		t.Error("KQkr Rq")
	}
	if HasImbalance(pieces("KQRkr"), "Qr") {
		t.Error("KQRkr Qr")
	}
	// multi piece
	if !HasImbalance(pieces("KQkrr"), "Qrr") {
		t.Error("KQkrr Qrr")
	}
	if HasImbalance(pieces("KQRkrr"), "Qrr") {
		t.Error("KQRkrr Qrr")
	}
}

func TestGamePhase(t *testing.T) {
	tests := []struct {
		phases, start, count, want int
	}{
		{2, 32, 32, 0},
		{2, 32, 17, 0},
		{2, 32, 16, 1},
		{2, 32, 2, 1},
		{0, 32, 16, 0},
	}
	for _, tt := range tests {
		if got := GamePhase(tt.phases, tt.start, tt.count); got != tt.want {
			t.Errorf("GamePhase(%v, %v, %v) = %v, want %v",
				tt.phases, tt.start, tt.count, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	var lines = []string{
		// White to move, up a queen, White won
		"8/8/8/2k5/8/1Q6/8/K7 w - - 0 40;variant chess;hmvc 5;result 1-0;game a",
		// Black to move, Black up a rook, Black won: flipped to a win for the side to move
		"8/8/8/2k5/8/1r6/8/K7 b - - 0 42;variant chess;hmvc 4;result 0-1;game b",
		// draw, filtered
		"8/8/8/2k5/8/8/8/K7 w - - 0 50;variant chess;hmvc 9;result 1/2-1/2;game c",
		// unstable material, filtered
		"8/8/8/2k5/8/1Q6/8/K7 w - - 0 40;variant chess;hmvc 0;result 1-0;game d",
	}
	var path = filepath.Join(t.TempDir(), "corpus.epd")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dataset, err := Load(context.Background(), []string{path}, FilterConfig{StablePly: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(dataset.Samples) != 2 {
		t.Fatalf("samples = %v", len(dataset.Samples))
	}
	// letters sorted: k, q, r
	if got := strings.Join(dataset.Pieces, ""); got != "kqr" {
		t.Fatalf("pieces = %v", got)
	}
	for _, sample := range dataset.Samples {
		if sample.Target != 1 {
			t.Errorf("target = %v, both samples favor the side to move", sample.Target)
		}
	}
	// the black POV sample flips the rook deficit into a surplus
	var rookSample = dataset.Samples[1]
	for _, f := range rookSample.Features {
		if dataset.Pieces[f.Index] == "r" && f.Value != 1 {
			t.Errorf("rook diff = %v, want 1 after POV flip", f.Value)
		}
	}
}

func trainingDataset(copies int) *Dataset {
	var q, r int32 = 0, 1
	var base = []Sample{
		{Features: []Feature{{q, 1}}, Target: 1},
		{Features: []Feature{{q, -1}}, Target: 0},
		{Features: []Feature{{r, 1}}, Target: 1},
		{Features: []Feature{{r, -1}}, Target: 0},
		{Features: []Feature{{q, 1}, {r, -1}}, Target: 1},
		{Features: []Feature{{q, -1}, {r, 1}}, Target: 0},
	}
	var d = &Dataset{Pieces: []string{"q", "r"}}
	for i := 0; i < copies; i++ {
		d.Samples = append(d.Samples, base...)
	}
	for i := range d.Samples {
		d.Samples[i].Men = 4
	}
	return d
}

func TestTrainOrdersPieces(t *testing.T) {
	var model, err = Train(trainingDataset(200), TrainConfig{
		Epochs:      50,
		Concurrency: 1,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	var coefficients = model.Coefficients()
	var q, r = coefficients[0], coefficients[1]
	if !(q > r && r > 0) {
		t.Errorf("expected q > r > 0, got q=%v r=%v", q, r)
	}
}

func TestTrainDeterministic(t *testing.T) {
	var fit = func() []float64 {
		var model, err = Train(trainingDataset(100), TrainConfig{
			Epochs:      10,
			Concurrency: 1,
			Seed:        42,
			Logger:      zerolog.Nop(),
		})
		if err != nil {
			t.Fatal(err)
		}
		return append(model.Coefficients(), model.Intercept())
	}
	var a, b = fit(), fit()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fit not deterministic: %v vs %v", a, b)
		}
	}
}

func TestTrainEmptyDataset(t *testing.T) {
	var _, err = Train(&Dataset{}, TrainConfig{Epochs: 1, Concurrency: 1, Logger: zerolog.Nop()})
	if err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestPrintValues(t *testing.T) {
	var dataset = trainingDataset(200)
	var model, err = Train(dataset, TrainConfig{Epochs: 50, Concurrency: 1, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	var sb = &strings.Builder{}
	PrintValues(sb, dataset, model, ScaleNormalized, false)
	var out = strings.TrimSpace(sb.String())
	var outLines = strings.Split(out, "\n")
	if len(outLines) != 3 {
		t.Fatalf("output: %q", out)
	}
	if !strings.HasPrefix(outLines[0], "q ") {
		t.Errorf("strongest piece first, got %q", outLines[0])
	}
	if !strings.HasPrefix(outLines[2], "move ") {
		t.Errorf("intercept last, got %q", outLines[2])
	}
}

func TestFilterPhase(t *testing.T) {
	var d = &Dataset{Samples: []Sample{
		{Men: 32}, {Men: 30}, {Men: 10}, {Men: 4},
	}}
	d.FilterPhase(2, 1)
	if len(d.Samples) != 2 {
		t.Fatalf("samples = %v", len(d.Samples))
	}
	for _, s := range d.Samples {
		if s.Men > 16 {
			t.Errorf("opening sample kept: %v men", s.Men)
		}
	}
}
