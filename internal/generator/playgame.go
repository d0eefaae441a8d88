package generator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/notnil/chess"

	"github.com/ianfab/chess-variant-stats/internal/engine"
	"github.com/ianfab/chess-variant-stats/internal/epd"
)

// maxGameLength caps runaway games; the seventy five move rule normally
// ends a game long before this.
const maxGameLength = 1024

type ply struct {
	fen  string
	move string
	hmvc int
}

func playGame(
	ctx context.Context,
	eng *engine.Engine,
	openingFen string,
	variant string,
	limits engine.Limits,
) ([]epd.Record, error) {

	if err := eng.NewGame(); err != nil {
		return nil, err
	}
	fenOption, err := chess.FEN(openingFen)
	if err != nil {
		return nil, fmt.Errorf("bad opening %q: %w", openingFen, err)
	}
	var game = chess.NewGame(fenOption)

	var plies []ply
	var materialKey = epd.MaterialKey(openingFen)
	var lastChange = 0

	for game.Outcome() == chess.NoOutcome && len(plies) < maxGameLength {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bestMove, err := eng.BestMove(game, limits)
		if err != nil {
			return nil, err
		}
		if err := game.Move(bestMove); err != nil {
			return nil, fmt.Errorf("engine move %v rejected: %w", bestMove, err)
		}

		var fen = game.Position().String()
		if key := epd.MaterialKey(fen); key != materialKey {
			materialKey = key
			lastChange = len(plies) + 1
		}
		plies = append(plies, ply{
			fen:  fen,
			move: bestMove.String(),
			hmvc: len(plies) + 1 - lastChange,
		})

		if game.Outcome() == chess.NoOutcome {
			claimOptionalDraw(game)
		}
	}

	var result = game.Outcome().String()
	if game.Outcome() == chess.NoOutcome {
		// length capped game
		result = epd.GameResultDraw
	}

	return buildRecords(plies, variant, result), nil
}

func buildRecords(plies []ply, variant, result string) []epd.Record {
	var gameID = uuid.NewString()
	var records = make([]epd.Record, 0, len(plies))
	for i := range plies {
		// bm is the move played from the recorded position
		var bm = "none"
		if i+1 < len(plies) {
			bm = plies[i+1].move
		}
		records = append(records, epd.Record{
			Fen: plies[i].fen,
			Ops: []epd.Op{
				{Key: epd.OpVariant, Value: variant},
				{Key: epd.OpBestMove, Value: bm},
				{Key: epd.OpHmvc, Value: fmt.Sprint(plies[i].hmvc)},
				{Key: epd.OpResult, Value: result},
				{Key: epd.OpGame, Value: gameID},
			},
		})
	}
	return records
}

// claimOptionalDraw ends the game on draw conditions a player may claim,
// threefold repetition and the fifty move rule, the way an engine match
// adjudicates them.
func claimOptionalDraw(game *chess.Game) {
	for _, method := range game.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			game.Draw(method)
			return
		}
	}
}
