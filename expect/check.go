package expect

import (
	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/framework/helpers"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

// Check is the test-scope form of Validate. It writes the response body to the debug logger,
// reports each failed expectation as a separate test error naming the field, the expected value
// and the actual value, and stops the test if there were any.
func Check(t helpers.TestContext, logger framework.Logger, resp harness.Response, expectations ...Expectation) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	logger.Printf("response %d: %s", resp.StatusCode, helpers.CanonicalizedJSONString(resp.Body))

	body := parseResponse(resp)
	scope := m.In(t).For(resp.Method + " " + resp.URL)
	ok := scope.Assert(body, HasStatus(ExpectedStatus))
	for _, e := range expectations {
		if !scope.Assert(body, e.Matcher()) {
			ok = false
		}
	}
	if !ok {
		t.FailNow()
	}
}

// HasStatus is a matcher for the status code of a response given to Check.
func HasStatus(status int) m.Matcher {
	return m.New(
		func(value interface{}) bool {
			return value.(parsedResponse).checkStatus(status) == nil
		},
		func() string {
			return describeValue(status) + " status code"
		},
		func(value interface{}) string {
			return value.(parsedResponse).checkStatus(status).Error()
		},
	)
}

// Matcher returns the expectation as a matcher for the response given to Check.
func (e Expectation) Matcher() m.Matcher {
	return m.New(
		func(value interface{}) bool {
			return value.(parsedResponse).check(e) == nil
		},
		func() string {
			return e.String()
		},
		func(value interface{}) string {
			return value.(parsedResponse).check(e).Error()
		},
	)
}
