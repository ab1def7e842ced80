package data

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

// Names of the built-in files, used when no path is configured.
const (
	DefaultFixtureFile = "pets.csv"
	DefaultBodyFile    = "pet1.json"
)

// OpenFixtures returns a reader for the fixture file at path, or for the built-in pets.csv if
// path is empty. The caller must close the returned Closer.
func OpenFixtures(path string) (*FixtureReader, io.Closer, error) {
	if path == "" {
		content, err := dataFilesRoot.ReadFile(dataBasePath + "/" + DefaultFixtureFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read built-in %q: %w", DefaultFixtureFile, err)
		}
		return NewFixtureReader(bytes.NewReader(content), DefaultFixtureFile), io.NopCloser(nil), nil
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	return NewFixtureReader(f, path), f, nil
}

// ReadAllFixtures reads every row of a fixture file. See OpenFixtures for the meaning of path.
func ReadAllFixtures(path string) ([]FixtureRow, error) {
	r, closer, err := OpenFixtures(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()
	var rows []FixtureRow
	for r.Next() {
		rows = append(rows, r.Row())
	}
	return rows, r.Err()
}

// LoadBodyFile returns the content of a literal request body file, unmodified. An empty path
// means the built-in pet1.json.
func LoadBodyFile(path string) ([]byte, error) {
	if path == "" {
		content, err := dataFilesRoot.ReadFile(dataBasePath + "/" + DefaultBodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in %q: %w", DefaultBodyFile, err)
		}
		return content, nil
	}
	content, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}
	return content, nil
}
