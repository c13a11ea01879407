package aidesparser

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name           string
		doc            string
		wantCandidates []string
		wantTail       string
	}{
		{
			name:           "two objects",
			doc:            `{"a":1}{"b":2}`,
			wantCandidates: []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:           "whitespace between values",
			doc:            "{\"a\":1}\n  [1,2]\n",
			wantCandidates: []string{`{"a":1}`, `[1,2]`},
			wantTail:       "\n",
		},
		{
			name:           "braces inside strings",
			doc:            `{"s":"}{"}{"t":"{"}`,
			wantCandidates: []string{`{"s":"}{"}`, `{"t":"{"}`},
		},
		{
			name:           "escaped quote",
			doc:            `{"s":"a\"}"}{"t":1}`,
			wantCandidates: []string{`{"s":"a\"}"}`, `{"t":1}`},
		},
		{
			name:           "unterminated tail",
			doc:            `{"a":1}{"b":`,
			wantCandidates: []string{`{"a":1}`},
			wantTail:       `{"b":`,
		},
		{
			name:           "stray closer",
			doc:            `}{"a":1}`,
			wantCandidates: []string{`}{"a":1}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, tail := splitTopLevel(tt.doc)
			if diff := cmp.Diff(tt.wantCandidates, candidates); diff != "" {
				t.Errorf("candidates mismatch (-want +got):\n%s", diff)
			}
			if tail != tt.wantTail {
				t.Errorf("Expected tail %q, got %q", tt.wantTail, tail)
			}
		})
	}
}

func TestStripTrailingCommas(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`{"a":1,}`, `{"a":1}`},
		{`[1,2,]`, `[1,2]`},
		{"[1,2 ,\n ]", "[1,2 \n ]"},
		{`[1,,]`, `[1]`},
		{`{"a":[1,],"b":{"c":2,},}`, `{"a":[1],"b":{"c":2}}`},
		{`{"a":"x,}"}`, `{"a":"x,}"}`},
		{`{"a":"x\",]",}`, `{"a":"x\",]"}`},
		{`{"a":1,"b":2}`, `{"a":1,"b":2}`},
		{`[1,`, `[1,`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := stripTrailingCommas(tt.input)
			if got != tt.expected {
				t.Errorf("stripTrailingCommas(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
			if again := stripTrailingCommas(got); again != got {
				t.Errorf("stripTrailingCommas is not idempotent on %q: %q", got, again)
			}
		})
	}
}

func TestRepairTruncated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "complete document",
			input:    `{"results":[{"a":"b"}]}`,
			expected: `{"results":[{"a":"b"}]}`,
		},
		{
			name:     "leading garbage",
			input:    `xx {"a":"b"}`,
			expected: `{"a":"b"}`,
		},
		{
			name:     "cut inside a record",
			input:    `{"results":[{"a":"b"},{"a":"c`,
			expected: `{"results":[{"a":"b"}]}`,
		},
		{
			name:     "nested objects",
			input:    `{"results":[{"a":{"b":"c"},"d":"x`,
			expected: `{"results":[{"a":{"b":"c"}}]}`,
		},
		{
			name:     "no closed string",
			input:    `{"results":[{"id":1`,
			expected: `{"results":[{"id":1`,
		},
		{
			name:     "brace inside string is not counted",
			input:    `{"a":"{{{"}`,
			expected: `{"a":"{{{"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairTruncated(tt.input)
			if got != tt.expected {
				t.Errorf("repairTruncated(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRepairTruncatedProducesValidJSON(t *testing.T) {
	inputs := []string{
		`{"results":[{"id":1,"name":"X"},{"id":2,"name":"Y`,
		`{"results":[{"id":1,"tags":[{"name":"a"}]},{"id":2,"na`,
		`{"results":[{"a":{"b":{"c":"d"}},"e":[1,2`,
	}

	for _, input := range inputs {
		got := repairTruncated(input)
		if !json.Valid([]byte(got)) {
			t.Errorf("repairTruncated(%q) = %q is not valid JSON", input, got)
		}
	}
}

func TestCountBraces(t *testing.T) {
	open, closed := countBraces(`{"a":"}}}","b":{"c":"{"}}`)
	if open != 2 || closed != 2 {
		t.Errorf("Expected 2 open and 2 closed braces, got %d and %d", open, closed)
	}
}

func TestPreview(t *testing.T) {
	short := "abc"
	if got := preview(short); got != short {
		t.Errorf("Expected %q, got %q", short, got)
	}

	long := ""
	for i := 0; i < 120; i++ {
		long += "é"
	}
	got := preview(long)
	if want := long[:200] + "..."; got != want {
		t.Errorf("Expected the first 100 runes followed by an ellipsis, got %q", got)
	}
}
