package perimeters

import (
	"fmt"
	"io"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/csvwriter"
	"github.com/giygas/aides-extras/fileio"
	"github.com/giygas/aides-extras/flattener"
	"github.com/giygas/aides-extras/logging"
	"github.com/tidwall/pretty"
)

// jsonOptions puts every array element on its own line
var jsonOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// SaveJSON writes records as an indented JSON list. Keys keep their source
// order and non-ASCII text is written as is.
func SaveJSON(path string, records []entities.Record) error {
	out := pretty.PrettyOptions(entities.MarshalRecords(records), jsonOptions)

	err := fileio.WriteAtomic(path, func(w io.Writer) error {
		if _, err := w.Write(out); err != nil {
			return &fileio.IOWriteError{Path: path, Err: err}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save perimeters JSON: %w", err)
	}

	logging.Info("Perimeters saved", "path", path, "records", len(records))
	return nil
}

// SaveCSV writes records with PerimeterSchema
func SaveCSV(path string, records []entities.Record) error {
	if err := csvwriter.WriteRecords(path, flattener.PerimeterSchema, records); err != nil {
		return fmt.Errorf("failed to save perimeters CSV: %w", err)
	}
	return nil
}
