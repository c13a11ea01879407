// Package aidesparser turns exported Aides-Territoires JSON documents into
// normalized result sets, repairing malformed input where it can.
package aidesparser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/logging"
	"github.com/giygas/aides-extras/metrics"
	"github.com/tidwall/gjson"
)

// Cascade stages, also used as metric labels
const (
	StageStrict  = "strict"
	StageSplit   = "split"
	StageRepair  = "repair"
	StageSalvage = "salvage"
)

var (
	resultsPattern = regexp.MustCompile(`(?s)"results":\s*\[(.*?)\]`)

	errExtraData    = errors.New("extra data after the top-level value")
	errNotContainer = errors.New("top-level value is neither an object nor a list")
)

// Load parses doc into a ResultSet. When strict parsing fails it tries, in
// order: splitting concatenated objects, removing trailing commas and closing
// a truncated document, and extracting the "results" array with a regular
// expression. The first attempt that succeeds wins. When all of them fail an
// UnrecoverableParseError carrying the strict diagnostic is returned.
func Load(doc string) (*entities.ResultSet, error) {
	rs, err := parseDocument(StageStrict, doc)
	if err == nil {
		metrics.ObserveAttempt(StageStrict, true)
		return rs, nil
	}

	var strictErr *entities.ParseError
	if !errors.As(err, &strictErr) {
		return nil, err
	}
	metrics.ObserveAttempt(StageStrict, false)
	logging.Warn("Malformed JSON", "error", strictErr)

	if strictErr.ExtraData || strings.Contains(doc, "}{") {
		logging.Info("Several JSON objects detected, parsing them separately")
		if rs, ok := splitConcatenated(doc); ok {
			metrics.ObserveAttempt(StageSplit, true)
			return rs, nil
		}
		metrics.ObserveAttempt(StageSplit, false)
	}

	logging.Info("Attempting automatic repair")
	repaired := repairTruncated(stripTrailingCommas(strings.TrimSpace(doc)))
	rs, err = parseDocument(StageRepair, repaired)
	if err == nil {
		metrics.ObserveAttempt(StageRepair, true)
		return rs, nil
	}
	metrics.ObserveAttempt(StageRepair, false)
	logging.Warn("Repair failed", "error", err)

	logging.Info("Attempting to extract the results list")
	if rs, ok := salvageResults(doc); ok {
		metrics.ObserveAttempt(StageSalvage, true)
		return rs, nil
	}
	metrics.ObserveAttempt(StageSalvage, false)

	return nil, &entities.UnrecoverableParseError{Cause: strictErr}
}

// decode validates doc as a single JSON value. The ParseError it returns
// flags documents where a complete value is followed by more data.
func decode(stage, doc string) (gjson.Result, error) {
	if strings.TrimSpace(doc) == "" {
		return gjson.Result{}, entities.NewParseError(stage, entities.ErrEmptyDocument)
	}

	if json.Valid([]byte(doc)) {
		return gjson.Parse(doc), nil
	}

	dec := json.NewDecoder(strings.NewReader(doc))
	var first json.RawMessage
	if err := dec.Decode(&first); err == nil {
		offset := dec.InputOffset()
		return gjson.Result{}, &entities.ParseError{
			Stage:     stage,
			Offset:    offset,
			ExtraData: true,
			Err:       errExtraData,
		}
	}

	perr := entities.NewParseError(stage, nil)
	var raw json.RawMessage
	err := json.Unmarshal([]byte(doc), &raw)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		perr.Offset = syntaxErr.Offset
	}
	if err == nil {
		err = errors.New("invalid JSON")
	}
	perr.Err = err
	return gjson.Result{}, perr
}

// parseDocument decodes doc and normalizes it: an envelope with a "results"
// list is used as is, a list becomes the results, any other object becomes a
// single result.
func parseDocument(stage, doc string) (*entities.ResultSet, error) {
	res, err := decode(stage, doc)
	if err != nil {
		return nil, err
	}

	switch {
	case res.IsArray():
		return entities.NewResultSet(toRecords(res)), nil
	case res.IsObject():
		results := res.Get("results")
		if !results.Exists() {
			return entities.NewResultSet([]entities.Record{entities.NewRecord([]byte(res.Raw))}), nil
		}
		if !results.IsArray() {
			return nil, fmt.Errorf("%s stage: %w", stage, entities.ErrResultsNotList)
		}
		records := toRecords(results)
		return &entities.ResultSet{Results: records, Count: envelopeCount(res, len(records))}, nil
	}

	return nil, entities.NewParseError(stage, errNotContainer)
}

func toRecords(list gjson.Result) []entities.Record {
	items := list.Array()
	records := make([]entities.Record, len(items))
	for i, item := range items {
		records[i] = entities.NewRecord([]byte(item.Raw))
	}
	return records
}

// envelopeCount returns the numeric "count" of an envelope, or fallback.
func envelopeCount(envelope gjson.Result, fallback int) int {
	if c := envelope.Get("count"); c.Type == gjson.Number {
		return int(c.Int())
	}
	return fallback
}

// splitConcatenated parses each top-level value of doc separately and merges
// them. Values that fail to parse are dropped. It reports false when no value
// could be parsed at all.
func splitConcatenated(doc string) (*entities.ResultSet, bool) {
	candidates, tail := splitTopLevel(doc)
	if rest := strings.TrimSpace(tail); rest != "" {
		logging.Warn("Ignoring unterminated trailing data", "preview", preview(rest))
	}

	var results []entities.Record
	total := 0
	parsed := 0

	for _, candidate := range candidates {
		if !json.Valid([]byte(candidate)) {
			logging.Warn("Skipping malformed JSON object", "preview", preview(candidate))
			continue
		}
		parsed++

		res := gjson.Parse(candidate)
		switch {
		case res.IsObject() && res.Get("results").IsArray():
			records := toRecords(res.Get("results"))
			results = append(results, records...)
			total += envelopeCount(res, len(records))
		case res.IsArray():
			records := toRecords(res)
			results = append(results, records...)
			total += len(records)
		default:
			results = append(results, entities.NewRecord([]byte(candidate)))
			total++
		}
	}

	if parsed == 0 {
		return nil, false
	}

	logging.Info("Merged concatenated JSON objects",
		"objects", len(candidates),
		"parsed", parsed,
		"results", len(results))

	if results == nil {
		results = []entities.Record{}
	}
	return &entities.ResultSet{Results: results, Count: total}, true
}

// salvageResults looks for a "results" array anywhere in doc and parses only
// that list.
func salvageResults(doc string) (*entities.ResultSet, bool) {
	m := resultsPattern.FindStringSubmatch(doc)
	if m == nil {
		return nil, false
	}

	list := "[" + m[1] + "]"
	if !json.Valid([]byte(list)) {
		logging.Warn("Extracted results list is not valid JSON", "preview", preview(list))
		return nil, false
	}

	return entities.NewResultSet(toRecords(gjson.Parse(list))), true
}

// preview shortens s to its first 100 characters for log messages
func preview(s string) string {
	n := 0
	for i := range s {
		if n == 100 {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
