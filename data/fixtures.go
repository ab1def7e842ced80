package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FixtureColumns is the number of columns every fixture row must have, in this order:
// petId, categoryId, categoryName, petName, photoUrls, tagIds, tagNames, status.
const FixtureColumns = 8

// FixtureRow is one data line of a pet fixture file. The first two columns are parsed as
// integers; everything else is passed through as text. TagIDs and TagNames are still
// semicolon-joined here; petmodel.BuildTags splits them.
type FixtureRow struct {
	PetID        int64
	CategoryID   int64
	CategoryName string
	PetName      string
	PhotoURLs    string
	TagIDs       string
	TagNames     string
	Status       string

	// Line is the 1-based line number in the source file.
	Line int
}

// ParseError reports a malformed fixture line.
type ParseError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s line %d, column %s: %s", e.Source, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s line %d: %s", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FixtureReader reads fixture rows one at a time, in the manner of bufio.Scanner. The first
// non-blank line is a header and is skipped. Each data line is split on every comma; quotes
// have no special meaning, so a value cannot contain a comma. It makes a single pass over its
// input and cannot be restarted.
//
//	r := data.NewFixtureReader(f, "pets.csv")
//	for r.Next() {
//		row := r.Row()
//		...
//	}
//	if err := r.Err(); err != nil { ... }
type FixtureReader struct {
	source        string
	scanner       *bufio.Scanner
	line          int
	headerSkipped bool
	row           FixtureRow
	err           error
	done          bool
}

// NewFixtureReader creates a reader over comma-separated fixture data. The source name is only
// used in error messages.
func NewFixtureReader(r io.Reader, source string) *FixtureReader {
	return &FixtureReader{source: source, scanner: bufio.NewScanner(r)}
}

// Next advances to the next row. It returns false at the end of the input or after the first
// error; call Err to tell the two apart.
func (r *FixtureReader) Next() bool {
	if r.done {
		return false
	}
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if !r.headerSkipped {
			r.headerSkipped = true
			continue
		}
		row, err := parseFixtureRecord(strings.Split(text, ","), r.line)
		if err != nil {
			r.err = withSource(err, r.source)
			r.done = true
			return false
		}
		r.row = row
		return true
	}
	r.done = true
	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("reading %s: %w", r.source, err)
	}
	return false
}

// Row returns the row read by the last successful call to Next.
func (r *FixtureReader) Row() FixtureRow {
	return r.row
}

// Err returns the first error encountered, or nil if the input was read to the end.
func (r *FixtureReader) Err() error {
	return r.err
}

func withSource(err error, source string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = source
	}
	return err
}

func parseFixtureRecord(record []string, line int) (FixtureRow, error) {
	if len(record) != FixtureColumns {
		return FixtureRow{}, &ParseError{
			Line: line,
			Err:  fmt.Errorf("expected %d fields, got %d", FixtureColumns, len(record)),
		}
	}
	petID, err := parseIntColumn(record[0], "petId", line)
	if err != nil {
		return FixtureRow{}, err
	}
	categoryID, err := parseIntColumn(record[1], "categoryId", line)
	if err != nil {
		return FixtureRow{}, err
	}
	return FixtureRow{
		PetID:        petID,
		CategoryID:   categoryID,
		CategoryName: record[2],
		PetName:      record[3],
		PhotoURLs:    record[4],
		TagIDs:       record[5],
		TagNames:     record[6],
		Status:       record[7],
		Line:         line,
	}, nil
}

func parseIntColumn(value, column string, line int) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Column: column, Err: fmt.Errorf("%q is not an integer", value)}
	}
	return n, nil
}
