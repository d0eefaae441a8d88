package epd

import (
	"strings"
	"unicode"
)

// The board helpers work on the raw FEN board field so that the analyzers
// stay variant agnostic: any letter is a piece, an optional '+' prefix marks
// a promoted piece as in shogi style variant FENs. Digits, slashes and
// bracketed pocket contents are skipped.

func BoardField(fen string) string {
	var board, _, _ = strings.Cut(fen, " ")
	return board
}

func SideToMove(fen string) string {
	var fields = strings.Fields(fen)
	if len(fields) < 2 {
		return "w"
	}
	return fields[1]
}

// Pieces lists the piece letters on the board, '+' prefixed for promoted
// pieces unless ignorePromotion.
func Pieces(board string, ignorePromotion bool) []string {
	var result []string
	var promoted = false
	for _, r := range board {
		switch {
		case r == '+':
			promoted = true
		case unicode.IsLetter(r):
			if promoted && !ignorePromotion {
				result = append(result, "+"+string(r))
			} else {
				result = append(result, string(r))
			}
			promoted = false
		default:
			promoted = false
		}
	}
	return result
}

// Signature is the sorted piece multiset of a board, the key under which
// endgames are classified.
func Signature(pieces []string) []string {
	var sig = make([]string, len(pieces))
	copy(sig, pieces)
	sortPieces(sig)
	return sig
}

func SignatureString(sig []string) string {
	return strings.Join(sig, "")
}

func sortPieces(pieces []string) {
	for i := 1; i < len(pieces); i++ {
		for j := i; j > 0 && pieces[j] < pieces[j-1]; j-- {
			pieces[j], pieces[j-1] = pieces[j-1], pieces[j]
		}
	}
}

func isWhitePiece(p string) bool {
	var letter = rune(p[len(p)-1])
	return unicode.IsUpper(letter)
}

// PieceLetter returns the lowercased letter of a piece, keeping the
// promotion prefix.
func PieceLetter(p string) string {
	return strings.ToLower(p)
}

func swapCase(p string) string {
	var letter = rune(p[len(p)-1])
	var swapped string
	if unicode.IsUpper(letter) {
		swapped = string(unicode.ToLower(letter))
	} else {
		swapped = string(unicode.ToUpper(letter))
	}
	return p[:len(p)-1] + swapped
}

// SwapColorsNeeded reports whether a signature should be color normalized:
// the side with more men becomes white, with a lexicographic tie break so
// that mirrored material configurations always map to one canonical form.
func SwapColorsNeeded(sig []string) bool {
	var white, black int
	var whiteJoined, blackJoined strings.Builder
	for _, p := range sig {
		if isWhitePiece(p) {
			white++
			whiteJoined.WriteString(PieceLetter(p))
		} else {
			black++
			blackJoined.WriteString(p)
		}
	}
	if black > white {
		return true
	}
	return black == white && blackJoined.String() > whiteJoined.String()
}

// SwapColors returns the signature with all piece colors swapped, re-sorted.
func SwapColors(sig []string) []string {
	var result = make([]string, len(sig))
	for i, p := range sig {
		result[i] = swapCase(p)
	}
	sortPieces(result)
	return result
}

// PieceDiffs returns, per lowercased piece letter, the white minus black
// piece count difference.
func PieceDiffs(pieces []string) map[string]int {
	var diffs = make(map[string]int)
	for _, p := range pieces {
		if isWhitePiece(p) {
			diffs[PieceLetter(p)]++
		} else {
			diffs[PieceLetter(p)]--
		}
	}
	return diffs
}

// MaterialKey is a comparison key for detecting material changes between
// successive positions of a game.
func MaterialKey(fen string) string {
	return SignatureString(Signature(Pieces(BoardField(fen), false)))
}
