package expect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iterasys/petstore-test-harness/petmodel"
)

var (
	// ErrUnexpectedStatus means the response status was not the expected one.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrFieldAbsent means a field path led nowhere in the response body. It is the same value
	// as petmodel.ErrFieldAbsent, so either package's errors can be tested with either name.
	ErrFieldAbsent = petmodel.ErrFieldAbsent

	// ErrValueMismatch means a field was present but did not have the expected value.
	ErrValueMismatch = errors.New("value mismatch")

	// ErrMalformedBody means the response body could not be parsed as JSON at all.
	ErrMalformedBody = errors.New("response body is not valid JSON")
)

// FieldError describes one failed expectation.
type FieldError struct {
	// Field is the field path, or "status code", or "body".
	Field    string
	Expected interface{}
	Actual   interface{}
	Err      error
}

func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrFieldAbsent):
		return fmt.Sprintf("%s: expected %s but the field was absent", e.Field, describeValue(e.Expected))
	case errors.Is(e.Err, ErrMalformedBody):
		return fmt.Sprintf("%s: %s (%s)", e.Field, ErrMalformedBody, e.Actual)
	case e.Err == nil:
		return fmt.Sprintf("%s: expected %s, got %s", e.Field, describeValue(e.Expected), describeValue(e.Actual))
	default:
		return fmt.Sprintf("%s: %s: expected %s, got %s", e.Field, e.Err, describeValue(e.Expected),
			describeValue(e.Actual))
	}
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// AssertionError collects every failed expectation from one validation, so that a single test
// failure reports all of the differences at once.
type AssertionError struct {
	Failures []*FieldError
}

func (e *AssertionError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, f.Error())
	}
	return fmt.Sprintf("%d expectation(s) failed:\n%s", len(e.Failures), strings.Join(lines, "\n"))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AssertionError) Unwrap() []error {
	ret := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		ret = append(ret, f)
	}
	return ret
}

func describeValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
