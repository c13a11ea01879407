package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
)

func TestReadTextUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aides.json")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name":"Aide à la rénovation"}`)...)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != `{"name":"Aide à la rénovation"}` {
		t.Errorf("Unexpected content: %q", got)
	}
}

func TestReadTextLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aides.json")
	// "rénovation" in ISO-8859-1
	content := []byte("{\"name\":\"r\xe9novation\"}")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != `{"name":"rénovation"}` {
		t.Errorf("Expected ISO-8859-1 to be decoded, got %q", got)
	}
}

func TestReadTextGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aides.json.gz")

	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(`{"results":[]}`)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != `{"results":[]}` {
		t.Errorf("Unexpected content: %q", got)
	}
}

func TestReadTextMissingFile(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "missing.json"))

	var readErr *IOReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Expected IOReadError, got %T: %v", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected the cause to be os.ErrNotExist, got %v", readErr.Err)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "id;name\n1;Grant A\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "id;name\n1;Grant A\n" {
		t.Errorf("Unexpected content: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the output file in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	boom := fmt.Errorf("boom")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the write error to be returned, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no file after a failed write, found %d entries", len(entries))
	}
}

func TestWriteAtomicKeepsPreviousFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("previous"), 0600); err != nil {
		t.Fatal(err)
	}

	_ = WriteAtomic(path, func(w io.Writer) error {
		return fmt.Errorf("boom")
	})

	got, _ := os.ReadFile(path)
	if string(got) != "previous" {
		t.Errorf("Expected previous content to survive, got %q", got)
	}
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := WriteAtomic(path, func(w io.Writer) error { return nil })

	var writeErr *IOWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Expected IOWriteError, got %T: %v", err, err)
	}
	if writeErr.Path != path {
		t.Errorf("Expected path %s in error, got %s", path, writeErr.Path)
	}
}

func TestWriteAtomicGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perimeters.json.gz")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, `[{"id":"1"}]`)
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != `[{"id":"1"}]` {
		t.Errorf("Unexpected round trip content: %q", got)
	}
}
