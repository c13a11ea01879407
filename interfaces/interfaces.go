// Package interfaces defines the contracts the command pipelines are built on,
// so that each stage can be swapped for a fake in tests.
package interfaces

import (
	"context"

	"github.com/giygas/aides-extras/aidesparser/entities"
)

// DataQualityReport summarizes non-fatal issues found in a result set
type DataQualityReport struct {
	Records       int
	DeclaredCount int
	CountMismatch bool     // DeclaredCount differs from Records
	DuplicateIDs  []string // ids seen more than once, in first-seen order
	MissingIDs    int      // records without a usable id
	NonObjects    int      // results that are not JSON objects
}

// HasIssues reports whether the report contains anything worth a warning
func (r *DataQualityReport) HasIssues() bool {
	return r.CountMismatch || len(r.DuplicateIDs) > 0 || r.MissingIDs > 0 || r.NonObjects > 0
}

// Loader reads a JSON export from disk and normalizes it into a ResultSet.
type Loader interface {
	LoadFile(path string) (*entities.ResultSet, error)
}

// Fetcher downloads every record of a paginated resource.
type Fetcher interface {
	FetchAll(ctx context.Context, scale string) ([]entities.Record, error)
}

// RowWriter writes flattened rows under a header made of columns.
// Nothing is left at path when it fails.
type RowWriter interface {
	WriteRows(path string, columns []string, rows []entities.FlatRow) error
}

// DataValidator checks a result set without rejecting it.
type DataValidator interface {
	ReportDataQuality(rs *entities.ResultSet) *DataQualityReport
}
