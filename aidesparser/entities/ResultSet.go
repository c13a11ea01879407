package entities

import (
	"bytes"
	"strconv"
)

// ResultSet is the normalized envelope every loader produces. Count is
// advisory: it comes from the source when present and may differ from
// len(Results).
type ResultSet struct {
	Results []Record
	Count   int
}

// NewResultSet builds an envelope whose count is the number of results.
func NewResultSet(results []Record) *ResultSet {
	return &ResultSet{Results: results, Count: len(results)}
}

// Len returns the number of records actually held.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Results)
}

// MarshalJSON writes the {"results": [...], "count": N} envelope.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"results":`)
	buf.Write(MarshalRecords(rs.Results))
	buf.WriteString(`,"count":`)
	buf.WriteString(strconv.Itoa(rs.Count))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalRecords joins records into a compact JSON array.
func MarshalRecords(records []Record) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, _ := r.MarshalJSON()
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
