// Package entities holds the data shapes shared by the loaders, the flattener
// and the emitters.
package entities

import (
	"github.com/tidwall/gjson"
)

// Kind is the JSON type of a field read through Record.Get.
type Kind int

const (
	Absent Kind = iota
	Null
	Bool
	Number
	String
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Object:
		return "object"
	}
	return "unknown"
}

// Record is one aid or perimeter object. The raw bytes are kept as they were
// in the source so key order and number literals survive a round trip.
type Record struct {
	raw []byte
}

// NewRecord wraps the raw JSON of a single value. The caller must not modify
// raw afterwards.
func NewRecord(raw []byte) Record {
	return Record{raw: raw}
}

// RecordFromString is a convenience for tests and fixtures.
func RecordFromString(raw string) Record {
	return Record{raw: []byte(raw)}
}

// Raw returns the JSON text of the record.
func (r Record) Raw() []byte {
	return r.raw
}

// Get returns the field stored under key. A missing key, or a record that is
// not an object, yields a Value of kind Absent.
func (r Record) Get(key string) Value {
	if len(r.raw) == 0 {
		return Value{}
	}
	return Value{res: gjson.GetBytes(r.raw, gjson.Escape(key))}
}

// Value returns the record itself as a Value.
func (r Record) Value() Value {
	if len(r.raw) == 0 {
		return Value{}
	}
	return Value{res: gjson.ParseBytes(r.raw)}
}

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	r.raw = append([]byte(nil), data...)
	return nil
}

// Value is a typed view over one JSON value.
type Value struct {
	res gjson.Result
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	if !v.res.Exists() {
		return Absent
	}
	switch v.res.Type {
	case gjson.Null:
		return Null
	case gjson.True, gjson.False:
		return Bool
	case gjson.Number:
		return Number
	case gjson.String:
		return String
	case gjson.JSON:
		if v.res.IsArray() {
			return List
		}
		return Object
	}
	return Absent
}

// Exists is false only for Absent values.
func (v Value) Exists() bool {
	return v.Kind() != Absent
}

// Raw is the JSON text of the value, "" when absent.
func (v Value) Raw() string {
	return v.res.Raw
}

// Str returns the decoded content of a string value, or the raw JSON text of
// any other kind.
func (v Value) Str() string {
	if v.Kind() == String {
		return v.res.Str
	}
	return v.res.Raw
}

// Bool returns the boolean held by a Bool value.
func (v Value) Bool() bool {
	return v.res.Type == gjson.True
}

// Int returns the integer form of a Number value.
func (v Value) Int() int64 {
	return v.res.Int()
}

// Items returns the elements of a List value, nil for any other kind.
func (v Value) Items() []Value {
	if v.Kind() != List {
		return nil
	}
	arr := v.res.Array()
	items := make([]Value, len(arr))
	for i, el := range arr {
		items[i] = Value{res: el}
	}
	return items
}

// Get reads a field of an Object value.
func (v Value) Get(key string) Value {
	if v.Kind() != Object {
		return Value{}
	}
	return Value{res: v.res.Get(gjson.Escape(key))}
}

// Truthy follows the usual scripting notion of emptiness: null, false, 0, "",
// [] and {} are falsy.
func (v Value) Truthy() bool {
	switch v.Kind() {
	case Absent, Null:
		return false
	case Bool:
		return v.Bool()
	case Number:
		return v.res.Float() != 0
	case String:
		return v.res.Str != ""
	case List:
		return len(v.res.Array()) > 0
	case Object:
		return len(v.res.Map()) > 0
	}
	return false
}

// Record turns an Object value back into a Record.
func (v Value) Record() Record {
	return NewRecord([]byte(v.res.Raw))
}
