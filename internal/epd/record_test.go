package epd

import "testing"

func TestParseRecord(t *testing.T) {
	var line = "8/8/8/8/8/2k5/1q6/K7 w - - 0 66;variant chess;bm none;hmvc 12;result 0-1;game 9f1c"
	var rec, err = ParseRecord(line)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Fen != "8/8/8/8/8/2k5/1q6/K7 w - - 0 66" {
		t.Errorf("bad fen %v", rec.Fen)
	}
	if v := rec.Variant(""); v != "chess" {
		t.Errorf("variant = %v", v)
	}
	if v := rec.Result(); v != GameResultBlackWin {
		t.Errorf("result = %v", v)
	}
	if v := rec.Hmvc(); v != 12 {
		t.Errorf("hmvc = %v", v)
	}
	if v := rec.FullmoveNumber(); v != 66 {
		t.Errorf("fullmove = %v", v)
	}
	if rec.String() != line {
		t.Errorf("round trip failed %v", rec.String())
	}
}

func TestParseRecordUnknownOps(t *testing.T) {
	var line = "4k3/4p3/8/8/8/8/8/4K3 b - - 3 40;acd 12;result 1/2-1/2"
	var rec, err = ParseRecord(line)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := rec.Op("acd"); !ok || v != "12" {
		t.Errorf("unknown op lost: %v %v", v, ok)
	}
	if rec.String() != line {
		t.Errorf("round trip failed %v", rec.String())
	}
}

func TestParseRecordEmpty(t *testing.T) {
	if _, err := ParseRecord("   "); err == nil {
		t.Error("expected error for empty record")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		result string
		score  float64
		ok     bool
	}{
		{GameResultWhiteWin, 1, true},
		{GameResultBlackWin, 0, true},
		{GameResultDraw, 0.5, true},
		{GameResultNone, 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		var score, ok = Score(tt.result)
		if score != tt.score || ok != tt.ok {
			t.Errorf("Score(%v) = %v %v", tt.result, score, ok)
		}
	}
}

func TestFlipResult(t *testing.T) {
	if FlipResult(GameResultWhiteWin) != GameResultBlackWin ||
		FlipResult(GameResultBlackWin) != GameResultWhiteWin ||
		FlipResult(GameResultDraw) != GameResultDraw {
		t.Error("FlipResult")
	}
}
