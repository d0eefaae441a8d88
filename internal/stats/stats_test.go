package stats

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeCorpus(t *testing.T, lines []string) string {
	t.Helper()
	var path = filepath.Join(t.TempDir(), "corpus.epd")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollect(t *testing.T) {
	var path = writeCorpus(t, []string{
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1;variant chess;hmvc 1;result 1-0;game a",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2;variant chess;hmvc 2;result 1-0;game a",
		"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1;variant chess;hmvc 1;result 1/2-1/2;game b",
	})
	report, err := Collect(context.Background(), Config{
		Files:           []string{path},
		BranchingFactor: true,
		Logger:          zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Results["1-0"] != 1 || report.Results["1/2-1/2"] != 1 {
		t.Errorf("results = %v", report.Results)
	}
	if len(report.GameLengths) != 2 {
		t.Fatalf("game lengths = %v", report.GameLengths)
	}
	// game a reaches fullmove 2, game b fullmove 1
	var lengths = map[int]bool{}
	for _, l := range report.GameLengths {
		lengths[l] = true
	}
	if !lengths[1] || !lengths[2] {
		t.Errorf("lengths = %v", report.GameLengths)
	}
	if len(report.BranchingFactors) != 3 {
		t.Errorf("branching factors = %v", report.BranchingFactors)
	}
	// 1. e4 gives black twenty replies
	if report.BranchingFactors[0] != 20 {
		t.Errorf("branching factor after e4 = %v", report.BranchingFactors[0])
	}
	if report.UnparseablePositions != 0 {
		t.Errorf("unparseable = %v", report.UnparseablePositions)
	}
}

func TestCollectRequiresVariant(t *testing.T) {
	var path = writeCorpus(t, []string{
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1;result 1-0;game a",
	})
	var _, err = Collect(context.Background(), Config{
		Files:  []string{path},
		Logger: zerolog.Nop(),
	})
	if err == nil {
		t.Error("expected error without variant")
	}
	if _, err := Collect(context.Background(), Config{
		Files:   []string{path},
		Variant: "chess",
		Logger:  zerolog.Nop(),
	}); err != nil {
		t.Error(err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		median float64
		mean   float64
		max    int
		ok     bool
	}{
		{"empty", nil, 0, 0, 0, false},
		{"single", []int{5}, 5, 5, 5, true},
		{"odd", []int{3, 1, 2}, 2, 2, 3, true},
		{"even", []int{4, 1, 3, 2}, 2.5, 2.5, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s, ok = Summarize(tt.values)
			if ok != tt.ok {
				t.Fatalf("ok = %v", ok)
			}
			if !ok {
				return
			}
			if s.Median != tt.median || s.Mean != tt.mean || s.Max != tt.max {
				t.Errorf("Summarize(%v) = %+v", tt.values, s)
			}
		})
	}
}

func TestPrintNoData(t *testing.T) {
	var sb = &strings.Builder{}
	var report = &Report{Results: map[string]int{}}
	report.Print(sb)
	if !strings.Contains(sb.String(), "No data") {
		t.Errorf("output: %v", sb.String())
	}
}
