package entities

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRecordGetKinds(t *testing.T) {
	r := RecordFromString(`{"n":null,"b":true,"i":42,"s":"texte","l":[1],"o":{"name":"x"},"dotted.key":"ok"}`)

	tests := []struct {
		key  string
		kind Kind
	}{
		{"n", Null},
		{"b", Bool},
		{"i", Number},
		{"s", String},
		{"l", List},
		{"o", Object},
		{"dotted.key", String},
		{"missing", Absent},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Get(tt.key).Kind(); got != tt.kind {
				t.Errorf("Get(%q).Kind() = %s, expected %s", tt.key, got, tt.kind)
			}
		})
	}
}

func TestRecordGetOnEmptyRecord(t *testing.T) {
	var r Record
	if r.Get("id").Exists() {
		t.Error("A zero Record has no fields")
	}
	raw, _ := r.MarshalJSON()
	if string(raw) != "null" {
		t.Errorf("Expected null, got %s", raw)
	}
}

func TestValueAccessors(t *testing.T) {
	r := RecordFromString(`{"id":7,"ok":false,"name":"Aide à la rénovation","tags":[{"name":"a"},"b"],"nested":{"name":"inner"}}`)

	if got := r.Get("id").Int(); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	if r.Get("ok").Bool() {
		t.Error("Expected false")
	}
	if got := r.Get("name").Str(); got != "Aide à la rénovation" {
		t.Errorf("Expected decoded string, got %q", got)
	}
	if got := r.Get("id").Str(); got != "7" {
		t.Errorf("Expected number text 7, got %q", got)
	}

	items := r.Get("tags").Items()
	if len(items) != 2 || items[0].Get("name").Str() != "a" || items[1].Str() != "b" {
		t.Errorf("Unexpected items %v", items)
	}
	if r.Get("name").Items() != nil {
		t.Error("Items of a string must be nil")
	}
	if r.Get("name").Get("x").Exists() {
		t.Error("Get on a string must be Absent")
	}

	inner := r.Get("nested").Record()
	if inner.Get("name").Str() != "inner" {
		t.Errorf("Expected nested record, got %s", inner.Raw())
	}
}

func TestValueTruthy(t *testing.T) {
	r := RecordFromString(`{"null":null,"f":false,"t":true,"zero":0,"zf":0.0,"one":1,"empty":"","s":"x","el":[],"l":[0],"eo":{},"o":{"a":1}}`)

	tests := map[string]bool{
		"missing": false, "null": false, "f": false, "t": true,
		"zero": false, "zf": false, "one": true,
		"empty": false, "s": true,
		"el": false, "l": true,
		"eo": false, "o": true,
	}

	for key, want := range tests {
		if got := r.Get(key).Truthy(); got != want {
			t.Errorf("Truthy(%s) = %v, expected %v", key, got, want)
		}
	}
}

func TestRecordJSONRoundTripKeepsRawText(t *testing.T) {
	raw := `{"b":1.50,"a":"é"}`
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if string(r.Raw()) != raw {
		t.Errorf("Expected raw text to be kept, got %s", r.Raw())
	}
}

func TestResultSetMarshal(t *testing.T) {
	rs := NewResultSet([]Record{RecordFromString(`{"id":1}`), RecordFromString(`{"id":2}`)})
	rs.Count = 10

	out, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"results":[{"id":1},{"id":2}],"count":10}` {
		t.Errorf("Unexpected envelope %s", out)
	}

	var empty *ResultSet
	if empty.Len() != 0 {
		t.Error("A nil result set has no records")
	}
	if got := string(MarshalRecords(nil)); got != "[]" {
		t.Errorf("Expected [], got %s", got)
	}
}

func TestFlatRowValues(t *testing.T) {
	row := FlatRow{"a": "1", "c": "3"}
	got := row.Values([]string{"c", "b", "a"})
	if len(got) != 3 || got[0] != "3" || got[1] != "" || got[2] != "1" {
		t.Errorf("Unexpected values %q", got)
	}
}

func TestErrors(t *testing.T) {
	perr := NewParseError("strict", ErrEmptyDocument)
	perr.Offset = 12

	unrecoverable := &UnrecoverableParseError{Cause: perr}
	if !errors.Is(unrecoverable, ErrEmptyDocument) {
		t.Error("UnrecoverableParseError must unwrap to the strict cause")
	}

	want := "unable to parse JSON document: parse error at strict stage (offset 12): empty JSON document"
	if unrecoverable.Error() != want {
		t.Errorf("Expected %q, got %q", want, unrecoverable.Error())
	}
}
