package apitest

import (
	"strings"

	"golang.org/x/exp/slices"
)

type Results struct {
	Tests               []TestResult
	Failures            []TestResult
	NonCriticalFailures []TestResult
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	NonCritical bool
	Explanation string
}

// OK returns true if there were no failures other than non-critical ones.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Find returns the result for the test with the given ID, if it ran.
func (r Results) Find(id TestID) (TestResult, bool) {
	for _, test := range r.Tests {
		if slices.Equal(test.TestID, id) {
			return test, true
		}
	}
	return TestResult{}, false
}

type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
