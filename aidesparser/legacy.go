package aidesparser

import (
	"errors"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/metrics"
)

// StageLegacy labels the single attempt made by LoadStrict
const StageLegacy = "legacy"

// LoadStrict is the loader of the original fixed-schema converter: trailing
// commas are removed, then doc must be an envelope holding a non-empty
// "results" list. No other repair is attempted.
func LoadStrict(doc string) (*entities.ResultSet, error) {
	res, err := decode(StageLegacy, stripTrailingCommas(doc))
	if err != nil {
		metrics.ObserveAttempt(StageLegacy, false)
		var perr *entities.ParseError
		if errors.As(err, &perr) {
			return nil, &entities.UnrecoverableParseError{Cause: perr}
		}
		return nil, err
	}
	metrics.ObserveAttempt(StageLegacy, true)

	results := res.Get("results")
	if !res.IsObject() || !results.IsArray() {
		return nil, entities.ErrResultsNotList
	}

	records := toRecords(results)
	if len(records) == 0 {
		return nil, entities.ErrNoRecords
	}

	return &entities.ResultSet{Results: records, Count: envelopeCount(res, len(records))}, nil
}
