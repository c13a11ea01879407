// Package fileio reads source documents and writes outputs for the aides
// tools. Reads are charset and gzip aware; writes are all-or-nothing.
package fileio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/giygas/aides-extras/logging"
	"github.com/klauspost/pgzip"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IOReadError reports a source file that could not be opened or read.
type IOReadError struct {
	Path string
	Err  error
}

func (e *IOReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *IOReadError) Unwrap() error {
	return e.Err
}

// IOWriteError reports an output file that could not be created or written.
type IOWriteError struct {
	Path string
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *IOWriteError) Unwrap() error {
	return e.Err
}

func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// ReadText returns the content of path as UTF-8 text. Files ending in .gz are
// decompressed, a leading BOM is dropped and content that is not valid UTF-8
// is decoded as ISO-8859-1.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &IOReadError{Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close input file", "path", path, "error", err)
		}
	}()

	var r io.Reader = f
	if isGzip(path) {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return "", &IOReadError{Path: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &IOReadError{Path: path, Err: err}
	}

	return DecodeText(data)
}

// DecodeText converts raw bytes to UTF-8 text the same way ReadText does.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), nil
	}

	logging.Debug("Input is not valid UTF-8, decoding as ISO-8859-1")
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode ISO-8859-1 content: %w", err)
	}
	return string(decoded), nil
}

// WriteAtomic calls write with a buffered writer backed by a temporary file
// next to path, then renames it to path. If write or any flush fails the
// temporary file is removed and path is left untouched. Paths ending in .gz
// are gzip compressed. The destination directory must already exist.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn("Failed to remove temporary file", "path", tmpName, "error", rmErr)
			}
		}
	}()

	buffered := bufio.NewWriter(tmp)
	var w io.Writer = buffered
	var gz *pgzip.Writer
	if isGzip(path) {
		gz = pgzip.NewWriter(buffered)
		w = gz
	}

	if err = write(w); err != nil {
		return err
	}

	if gz != nil {
		if err = gz.Close(); err != nil {
			return &IOWriteError{Path: path, Err: err}
		}
	}
	if err = buffered.Flush(); err != nil {
		return &IOWriteError{Path: path, Err: err}
	}
	if err = tmp.Chmod(0644); err != nil {
		return &IOWriteError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOWriteError{Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &IOWriteError{Path: path, Err: err}
	}

	return nil
}
