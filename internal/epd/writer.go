package epd

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Writer appends records line by line to a file or stdout, compressing
// when the target has a .zst extension.
type Writer struct {
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

// NewWriter opens path for writing, appending unless overwrite. An empty
// path means stdout.
func NewWriter(path string, overwrite bool) (*Writer, error) {
	if path == "" {
		return &Writer{buf: bufio.NewWriter(os.Stdout)}, nil
	}
	var flags = os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	var w = &Writer{file: file}
	if isCompressed(path) {
		zw, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		w.zw = zw
		w.buf = bufio.NewWriter(zw)
	} else {
		w.buf = bufio.NewWriter(file)
	}
	return w, nil
}

func (w *Writer) WriteRecord(rec Record) error {
	var _, err = io.WriteString(w.buf, rec.String())
	if err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Close() error {
	var err = w.buf.Flush()
	if w.zw != nil {
		if zerr := w.zw.Close(); err == nil {
			err = zerr
		}
	}
	if w.file != nil {
		if ferr := w.file.Close(); err == nil {
			err = ferr
		}
	}
	return err
}
