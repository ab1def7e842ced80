package apitest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	type params struct {
		run         []string
		skip        []string
		testID      TestID
		shouldMatch bool
	}
	allParams := []params{
		// matches everything by default
		{nil, nil, TestID(nil), true},
		{nil, nil, TestID{"create"}, true},
		{nil, nil, TestID{"data-driven create", "row 2"}, true},

		// -run with a single component; parents of a selected test are kept
		{[]string{"create"}, nil, TestID(nil), true},
		{[]string{"create"}, nil, TestID{"create"}, true},
		{[]string{"create"}, nil, TestID{"delete"}, false},
		{[]string{"create"}, nil, TestID{"data-driven create"}, true},
		{[]string{"create"}, nil, TestID{"create", "anything"}, true},

		// -run with multiple components
		{[]string{"data-driven/row 1"}, nil, TestID{"data-driven"}, true},
		{[]string{"data-driven/row 1"}, nil, TestID{"data-driven", "row 1"}, true},
		{[]string{"data-driven/row 1"}, nil, TestID{"data-driven", "row 2"}, false},
		{[]string{"data-driven/row 1"}, nil, TestID{"login"}, false},

		// -skip with a single component
		{nil, []string{"login"}, TestID(nil), true},
		{nil, []string{"login"}, TestID{"login"}, false},
		{nil, []string{"login"}, TestID{"create"}, true},

		// -skip with multiple components only excludes the exact depth or deeper
		{nil, []string{"data-driven/row 2"}, TestID{"data-driven"}, true},
		{nil, []string{"data-driven/row 2"}, TestID{"data-driven", "row 2"}, false},
		{nil, []string{"data-driven/row 2"}, TestID{"data-driven", "row 1"}, true},

		// -skip overrides -run
		{[]string{"create"}, []string{"data"}, TestID{"create"}, true},
		{[]string{"create"}, []string{"data"}, TestID{"data-driven create"}, false},
	}
	for _, p := range allParams {
		var r RegexFilters
		for _, s := range p.run {
			require.NoError(t, r.MustMatch.Set(s))
		}
		for _, s := range p.skip {
			require.NoError(t, r.MustNotMatch.Set(s))
		}
		t.Run(fmt.Sprintf("run=%s, skip=%s, id=%s", r.MustMatch, r.MustNotMatch, p.testID), func(t *testing.T) {
			assert.Equal(t, p.shouldMatch, r.Match(p.testID))
		})
	}
}

func TestParseTestIDPatternRejectsBadRegex(t *testing.T) {
	_, err := ParseTestIDPattern("ok/(unclosed")
	assert.Error(t, err)
}

func TestTestIDPatternListString(t *testing.T) {
	var l TestIDPatternList
	require.NoError(t, l.Set("a/b"))
	require.NoError(t, l.Set("c"))
	assert.Equal(t, `"a/b" or "c"`, l.String())
}
