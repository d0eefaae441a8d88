package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notnil/chess"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

func TestLoadBook(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "book.epd")
	var content = "// test book\n" +
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1\n" +
		"\n" +
		"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1;eco D00\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	openings, err := LoadBook(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(openings) != 2 {
		t.Fatalf("len = %v", len(openings))
	}
	if openings[1] != "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1" {
		t.Errorf("annotation not stripped: %v", openings[1])
	}
}

func TestLoadBookDefault(t *testing.T) {
	openings, err := LoadBook("")
	if err != nil {
		t.Fatal(err)
	}
	if len(openings) != 1 || openings[0] != startFen {
		t.Errorf("default book = %v", openings)
	}
}

func TestBuildRecords(t *testing.T) {
	var plies = []ply{
		{fen: "fen1 w - - 0 1", move: "e2e4", hmvc: 1},
		{fen: "fen2 b - - 0 1", move: "d7d5", hmvc: 2},
		{fen: "fen3 w - - 0 2", move: "e4d5", hmvc: 0},
	}
	var records = buildRecords(plies, "chess", epd.GameResultWhiteWin)
	if len(records) != 3 {
		t.Fatalf("len = %v", len(records))
	}
	if bm, _ := records[0].Op(epd.OpBestMove); bm != "d7d5" {
		t.Errorf("bm[0] = %v", bm)
	}
	if bm, _ := records[2].Op(epd.OpBestMove); bm != "none" {
		t.Errorf("bm[2] = %v", bm)
	}
	if records[1].Hmvc() != 2 {
		t.Errorf("hmvc[1] = %v", records[1].Hmvc())
	}
	if records[0].Result() != epd.GameResultWhiteWin {
		t.Errorf("result = %v", records[0].Result())
	}
	var game0, _ = records[0].Op(epd.OpGame)
	var game2, _ = records[2].Op(epd.OpGame)
	if game0 == "" || game0 != game2 {
		t.Errorf("game ids differ: %v %v", game0, game2)
	}
}

func TestClaimOptionalDraw(t *testing.T) {
	var game = chess.NewGame()
	// shuffle knights into a threefold repetition
	var moves = []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
	}
	for _, san := range moves {
		if err := game.MoveStr(san); err != nil {
			t.Fatal(err)
		}
	}
	claimOptionalDraw(game)
	if game.Outcome() != chess.Draw || game.Method() != chess.ThreefoldRepetition {
		t.Errorf("outcome %v method %v", game.Outcome(), game.Method())
	}
}
