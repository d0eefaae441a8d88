package epd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const Stdin = "-"

// maxLineSize bounds a single corpus line; drop variants can carry long
// pocket fields but nowhere near this.
const maxLineSize = 1 << 20

func isCompressed(path string) bool {
	return filepath.Ext(path) == ".zst"
}

func openInput(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !isCompressed(path) {
		return file, nil
	}
	zr, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &compressedReader{file: file, zr: zr}, nil
}

type compressedReader struct {
	file *os.File
	zr   *zstd.Decoder
}

func (cr *compressedReader) Read(p []byte) (int, error) { return cr.zr.Read(p) }

func (cr *compressedReader) Close() error {
	cr.zr.Close()
	return cr.file.Close()
}

// WalkFiles streams the records of the given files in order, calling fn for
// each. An empty file list means stdin. Blank lines are skipped, a malformed
// record aborts the walk.
func WalkFiles(ctx context.Context, files []string, fn func(Record) error) error {
	if len(files) == 0 {
		files = []string{Stdin}
	}
	for _, file := range files {
		var err = walkFile(ctx, file, fn)
		if err != nil {
			return fmt.Errorf("%v: %w", file, err)
		}
	}
	return nil
}

func walkFile(ctx context.Context, path string, fn func(Record) error) error {
	input, err := openInput(path)
	if err != nil {
		return err
	}
	defer input.Close()

	var scanner = bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var line = scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// CountLines is used for progress totals. Compressed inputs and stdin are
// not counted.
func CountLines(files []string) (int, bool) {
	if len(files) == 0 {
		return 0, false
	}
	var total int
	for _, path := range files {
		if path == Stdin || isCompressed(path) {
			return 0, false
		}
		var n, err = countFileLines(path)
		if err != nil {
			return 0, false
		}
		total += n
	}
	return total, true
}

func countFileLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var count int
	var buf = make([]byte, 1024*1024)
	for {
		n, err := file.Read(buf)
		count += bytes.Count(buf[:n], []byte{'\n'})
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
