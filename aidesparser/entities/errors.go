package entities

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument  = errors.New("empty JSON document")
	ErrResultsNotList = errors.New(`"results" is not a list`)
	ErrNoRecords      = errors.New("no records found in JSON document")
)

// ParseError is a failed parse attempt. It is recoverable: the loader moves on
// to the next repair strategy.
type ParseError struct {
	Stage     string
	Offset    int64
	ExtraData bool // a complete value was followed by more data
	Err       error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse error at %s stage (offset %d): %v", e.Stage, e.Offset, e.Err)
	}
	return fmt.Sprintf("parse error at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(stage string, err error) *ParseError {
	return &ParseError{Stage: stage, Err: err}
}

// UnrecoverableParseError is returned once every repair strategy failed. It
// carries the diagnostic of the first, strict, parse.
type UnrecoverableParseError struct {
	Cause *ParseError
}

func (e *UnrecoverableParseError) Error() string {
	return fmt.Sprintf("unable to parse JSON document: %v", e.Cause)
}

func (e *UnrecoverableParseError) Unwrap() error {
	return e.Cause
}
