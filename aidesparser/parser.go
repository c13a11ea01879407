package aidesparser

import (
	"fmt"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/fileio"
	"github.com/giygas/aides-extras/interfaces"
	"github.com/giygas/aides-extras/logging"
)

// Compile-time checks to ensure both loaders implement the Loader interface
var (
	_ interfaces.Loader = (*ResilientLoader)(nil)
	_ interfaces.Loader = (*StrictLoader)(nil)
)

// ResilientLoader reads a file and parses it with Load
type ResilientLoader struct{}

// NewResilientLoader creates a new ResilientLoader instance
func NewResilientLoader() *ResilientLoader {
	return &ResilientLoader{}
}

// LoadFile implements the Loader interface
func (l *ResilientLoader) LoadFile(path string) (*entities.ResultSet, error) {
	return loadFile(path, Load)
}

// StrictLoader reads a file and parses it with LoadStrict
type StrictLoader struct{}

// NewStrictLoader creates a new StrictLoader instance
func NewStrictLoader() *StrictLoader {
	return &StrictLoader{}
}

// LoadFile implements the Loader interface
func (l *StrictLoader) LoadFile(path string) (*entities.ResultSet, error) {
	return loadFile(path, LoadStrict)
}

func loadFile(path string, parse func(string) (*entities.ResultSet, error)) (*entities.ResultSet, error) {
	logging.Info("Reading JSON file", "path", path)

	doc, err := fileio.ReadText(path)
	if err != nil {
		return nil, err
	}

	rs, err := parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logging.Info("JSON file loaded", "path", path, "results", rs.Len(), "count", rs.Count)
	return rs, nil
}
