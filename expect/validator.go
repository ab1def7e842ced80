package expect

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/iterasys/petstore-test-harness/framework/harness"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ExpectedStatus is the status code every validated response must have.
const ExpectedStatus = http.StatusOK

// Expectation is a claim that the value at a field path of a JSON response equals a literal.
//
// The path uses dots for object properties and [i] for array elements, as in "category.name"
// or "tags[0].name". The expected value is either an integer or a string, and the comparison
// follows its type: an integer expectation accepts a JSON number, or a string holding that
// number; a string expectation accepts a JSON string, or a scalar whose text is equal.
type Expectation struct {
	Path     string
	Expected interface{}
}

// Field creates an Expectation.
func Field(path string, expected interface{}) Expectation {
	return Expectation{Path: path, Expected: expected}
}

func (e Expectation) String() string {
	return fmt.Sprintf("%s equals %s", e.Path, describeValue(e.Expected))
}

// Validate checks that the response has status 200 and that every expectation holds. It returns
// nil or an *AssertionError listing all failures. The response is not modified, so validating
// the same response again gives the same result.
func Validate(resp harness.Response, expectations ...Expectation) error {
	body := parseResponse(resp)
	var failures []*FieldError
	if fe := body.checkStatus(ExpectedStatus); fe != nil {
		failures = append(failures, fe)
	}
	for _, e := range expectations {
		if fe := body.check(e); fe != nil {
			failures = append(failures, fe)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &AssertionError{Failures: failures}
}

// parsedResponse is a response whose body has been decoded into a generic tree, once, so that
// any number of expectations can navigate it.
type parsedResponse struct {
	status   int
	tree     interface{}
	parseErr error
}

func parseResponse(resp harness.Response) parsedResponse {
	tree, err := oj.Parse(resp.Body)
	return parsedResponse{status: resp.StatusCode, tree: tree, parseErr: err}
}

func (p parsedResponse) checkStatus(expected int) *FieldError {
	if p.status == expected {
		return nil
	}
	return &FieldError{Field: "status code", Expected: expected, Actual: p.status, Err: ErrUnexpectedStatus}
}

func (p parsedResponse) check(e Expectation) *FieldError {
	if p.parseErr != nil {
		return &FieldError{Field: e.Path, Expected: e.Expected, Actual: p.parseErr.Error(), Err: ErrMalformedBody}
	}
	expr, err := jp.ParseString("$." + e.Path)
	if err != nil {
		return &FieldError{Field: e.Path, Expected: e.Expected, Err: fmt.Errorf("invalid field path: %w", err)}
	}
	found := expr.Get(p.tree)
	if len(found) == 0 {
		return &FieldError{Field: e.Path, Expected: e.Expected, Err: ErrFieldAbsent}
	}
	actual := found[0]
	if !valueMatches(e.Expected, actual) {
		return &FieldError{Field: e.Path, Expected: e.Expected, Actual: actual, Err: ErrValueMismatch}
	}
	return nil
}

// Below this magnitude a float64 integer can only have come from that exact integer.
const maxExactFloat = 1 << 53

// valueMatches compares a value from an oj.Parse tree with an expected literal. oj.Parse gives
// int64 for integers, json.Number for integers too large for int64, and float64 only for
// numbers written with a fraction or exponent, so integers are compared without going through
// float64.
func valueMatches(expected, actual interface{}) bool {
	if n, ok := asInt64(expected); ok {
		switch a := actual.(type) {
		case int64:
			return a == n
		case json.Number:
			parsed, err := strconv.ParseInt(string(a), 10, 64)
			return err == nil && parsed == n
		case float64:
			return a == math.Trunc(a) && math.Abs(a) < maxExactFloat && int64(a) == n
		case string:
			parsed, err := strconv.ParseInt(a, 10, 64)
			return err == nil && parsed == n
		default:
			return false
		}
	}
	if s, ok := expected.(string); ok {
		switch a := actual.(type) {
		case string:
			return a == s
		case int64:
			return strconv.FormatInt(a, 10) == s
		case json.Number:
			return string(a) == s
		case float64, bool:
			return ldvalue.CopyArbitraryValue(a).JSONString() == s
		default:
			return false
		}
	}
	return ldvalue.CopyArbitraryValue(expected).Equal(ldvalue.CopyArbitraryValue(actual))
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true //nolint:gosec
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
