package epd

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	GameResultNone     = "*"
	GameResultWhiteWin = "1-0"
	GameResultBlackWin = "0-1"
	GameResultDraw     = "1/2-1/2"
)

// Annotation ops written by the generators and read by the analyzers.
const (
	OpVariant  = "variant"
	OpBestMove = "bm"
	OpHmvc     = "hmvc"
	OpResult   = "result"
	OpGame     = "game"
)

type Op struct {
	Key   string
	Value string
}

// Record is a single corpus line: a FEN followed by semicolon separated
// annotation ops. Ops keep their input order so unknown ops survive a
// parse/format round trip.
type Record struct {
	Fen string
	Ops []Op
}

func ParseRecord(line string) (Record, error) {
	var tokens = strings.Split(strings.TrimSpace(line), ";")
	if tokens[0] == "" {
		return Record{}, fmt.Errorf("empty record")
	}
	var rec = Record{Fen: tokens[0]}
	for _, token := range tokens[1:] {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		var key, value, _ = strings.Cut(token, " ")
		rec.Ops = append(rec.Ops, Op{Key: key, Value: value})
	}
	return rec, nil
}

func (rec Record) String() string {
	var sb = &strings.Builder{}
	sb.WriteString(rec.Fen)
	for _, op := range rec.Ops {
		sb.WriteString(";")
		sb.WriteString(op.Key)
		sb.WriteString(" ")
		sb.WriteString(op.Value)
	}
	return sb.String()
}

func (rec Record) Op(key string) (string, bool) {
	for _, op := range rec.Ops {
		if op.Key == key {
			return op.Value, true
		}
	}
	return "", false
}

func (rec Record) Variant(fallback string) string {
	if v, ok := rec.Op(OpVariant); ok {
		return v
	}
	return fallback
}

func (rec Record) Result() string {
	var v, _ = rec.Op(OpResult)
	return v
}

// Hmvc returns the plies since the last material change, 0 when unannotated.
func (rec Record) Hmvc() int {
	var v, ok = rec.Op(OpHmvc)
	if !ok {
		return 0
	}
	var n, err = strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// FullmoveNumber returns the last FEN field, 0 when absent or malformed.
func (rec Record) FullmoveNumber() int {
	var fields = strings.Fields(rec.Fen)
	if len(fields) < 2 {
		return 0
	}
	var n, err = strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return n
}

func IsDecisive(result string) bool {
	return result == GameResultWhiteWin || result == GameResultBlackWin
}

// Score maps a result to the white point of view target value.
func Score(result string) (float64, bool) {
	switch result {
	case GameResultWhiteWin:
		return 1, true
	case GameResultBlackWin:
		return 0, true
	case GameResultDraw:
		return 0.5, true
	default:
		return 0, false
	}
}

func FlipResult(result string) string {
	switch result {
	case GameResultWhiteWin:
		return GameResultBlackWin
	case GameResultBlackWin:
		return GameResultWhiteWin
	default:
		return result
	}
}
