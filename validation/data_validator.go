// Package validation reports data quality issues in loaded result sets.
// Nothing here rejects data: issues are logged and the pipeline goes on.
package validation

import (
	"strings"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/interfaces"
	"github.com/giygas/aides-extras/logging"
)

// maxListedIDs caps the ids kept in a report
const maxListedIDs = 10

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// recordID returns the id of r as text. Only non-empty strings and numbers
// count as ids.
func recordID(r entities.Record) (string, bool) {
	id := r.Get("id")
	switch id.Kind() {
	case entities.Number:
		return id.Raw(), true
	case entities.String:
		s := strings.TrimSpace(id.Str())
		return s, s != ""
	}
	return "", false
}

// ReportDataQuality checks rs for duplicate ids, records without an id,
// results that are not objects and a count that differs from the number of
// results.
func (v *DataValidatorImpl) ReportDataQuality(rs *entities.ResultSet) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		Records:      rs.Len(),
		DuplicateIDs: []string{},
	}
	if rs == nil {
		return report
	}

	report.DeclaredCount = rs.Count
	report.CountMismatch = rs.Count != rs.Len()

	seen := make(map[string]int, rs.Len())
	for _, r := range rs.Results {
		if r.Value().Kind() != entities.Object {
			report.NonObjects++
			continue
		}

		id, ok := recordID(r)
		if !ok {
			report.MissingIDs++
			continue
		}

		seen[id]++
		if seen[id] == 2 && len(report.DuplicateIDs) < maxListedIDs {
			report.DuplicateIDs = append(report.DuplicateIDs, id)
		}
	}

	return report
}

// LogReport writes one warning per kind of issue found in report
func LogReport(source string, report *interfaces.DataQualityReport) {
	if !report.HasIssues() {
		logging.Debug("No data quality issue found", "source", source, "records", report.Records)
		return
	}

	if report.CountMismatch {
		logging.Warn("Declared count differs from the number of records",
			"source", source,
			"count", report.DeclaredCount,
			"records", report.Records,
		)
	}
	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Duplicate record ids detected",
			"source", source,
			"duplicates", report.DuplicateIDs,
		)
	}
	if report.MissingIDs > 0 {
		logging.Warn("Records without id",
			"source", source,
			"count", report.MissingIDs,
		)
	}
	if report.NonObjects > 0 {
		logging.Warn("Results that are not JSON objects",
			"source", source,
			"count", report.NonObjects,
		)
	}
}
