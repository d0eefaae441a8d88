package generator

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

const startFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// LoadBook reads an EPD opening book, one starting position per line.
// Blank lines and // comments are skipped; annotation ops after the FEN are
// allowed and ignored.
func LoadBook(path string) ([]string, error) {
	if path == "" {
		return []string{startFen}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []string
	var scanner = bufio.NewScanner(file)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		rec, err := epd.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		result = append(result, rec.Fen)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%v: empty opening book", path)
	}
	return result, nil
}
