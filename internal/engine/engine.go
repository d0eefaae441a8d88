// Package engine controls an external UCI engine process, for example
// Fairy-Stockfish, used by the position generator.
package engine

import (
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// Limits bounds a single search. At least one of Depth and MoveTime must be
// set.
type Limits struct {
	Depth    int
	MoveTime time.Duration
}

func (l Limits) Validate() error {
	if l.Depth == 0 && l.MoveTime == 0 {
		return fmt.Errorf("at least one of depth and movetime is required")
	}
	return nil
}

// Option is a UCI option to apply after the handshake. Order matters for
// some engines (VariantPath before UCI_Variant), so options are a slice,
// not a map.
type Option struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type Engine struct {
	eng *uci.Engine
}

// New starts the engine binary and performs the UCI handshake. The variant,
// when not empty, is forwarded as the UCI_Variant option after any explicit
// options.
func New(path string, options []Option, variant string) (*Engine, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("start engine %v: %w", path, err)
	}
	var cmds = []uci.Cmd{uci.CmdUCI}
	for _, opt := range options {
		cmds = append(cmds, uci.CmdSetOption{Name: opt.Name, Value: opt.Value})
	}
	if variant != "" && variant != "chess" {
		cmds = append(cmds, uci.CmdSetOption{Name: "UCI_Variant", Value: variant})
	}
	cmds = append(cmds, uci.CmdIsReady)
	if err := eng.Run(cmds...); err != nil {
		eng.Close()
		return nil, fmt.Errorf("uci handshake: %w", err)
	}
	return &Engine{eng: eng}, nil
}

func (e *Engine) NewGame() error {
	return e.eng.Run(uci.CmdUCINewGame, uci.CmdIsReady)
}

// BestMove searches the current position of game within limits.
func (e *Engine) BestMove(game *chess.Game, limits Limits) (*chess.Move, error) {
	var cmdGo = uci.CmdGo{Depth: limits.Depth, MoveTime: limits.MoveTime}
	var cmdPos = uci.CmdPosition{Position: game.Position()}
	if err := e.eng.Run(cmdPos, cmdGo); err != nil {
		return nil, err
	}
	var bestMove = e.eng.SearchResults().BestMove
	if bestMove == nil {
		return nil, fmt.Errorf("engine returned no best move")
	}
	return bestMove, nil
}

func (e *Engine) Close() {
	if e.eng != nil {
		e.eng.Close()
	}
}
