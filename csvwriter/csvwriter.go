// Package csvwriter emits flattened rows as delimited text files.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/fileio"
	"github.com/giygas/aides-extras/flattener"
	"github.com/giygas/aides-extras/interfaces"
	"github.com/giygas/aides-extras/logging"
	"github.com/giygas/aides-extras/metrics"
)

var _ interfaces.RowWriter = (*Writer)(nil)

// Writer writes CSV files with minimal quoting and CRLF line endings
type Writer struct {
	comma rune
	label string // schema label of aides_records_converted_total
}

// NewWriter creates a Writer using comma as the field delimiter
func NewWriter(comma rune, label string) *Writer {
	return &Writer{comma: comma, label: label}
}

// ForSchema returns a Writer using the delimiter and name of s
func ForSchema(s *flattener.Schema) *Writer {
	return NewWriter(s.Comma, s.Name)
}

// WriteRows writes the header then one line per row. The file only appears
// at path once everything has been written.
func (w *Writer) WriteRows(path string, columns []string, rows []entities.FlatRow) error {
	err := fileio.WriteAtomic(path, func(out io.Writer) error {
		if err := w.encode(out, columns, rows); err != nil {
			return &fileio.IOWriteError{Path: path, Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordsConverted.WithLabelValues(w.label).Add(float64(len(rows)))
	logging.Info("CSV written", "path", path, "rows", len(rows), "columns", len(columns))
	return nil
}

func (w *Writer) encode(out io.Writer, columns []string, rows []entities.FlatRow) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.comma
	cw.UseCRLF = true

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Values(columns)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecords flattens records under s and writes them to path.
func WriteRecords(path string, s *flattener.Schema, records []entities.Record) error {
	return ForSchema(s).WriteRows(path, s.Columns(), flattener.FlattenAll(records, s))
}
