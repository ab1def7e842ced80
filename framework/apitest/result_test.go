package apitest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestIDString(t *testing.T) {
	assert.Equal(t, "", TestID{}.String())
	assert.Equal(t, "create", TestID{"create"}.String())
	assert.Equal(t, "data-driven create/row 1", TestID{"data-driven create", "row 1"}.String())
}

func TestTestIDPlusDoesNotModifyOriginal(t *testing.T) {
	id1 := TestID{"data-driven create"}
	id2a := id1.Plus("row 1")
	id2b := id1.Plus("row 2")
	assert.Equal(t, TestID{"data-driven create"}, id1)
	assert.Equal(t, TestID{"data-driven create", "row 1"}, id2a)
	assert.Equal(t, TestID{"data-driven create", "row 2"}, id2b)
}

func TestResultsFind(t *testing.T) {
	results := Results{Tests: []TestResult{
		{TestID: TestID{"create"}},
		{TestID: TestID{"delete"}, Errors: []error{errors.New("boom")}},
	}}

	r, ok := results.Find(TestID{"delete"})
	assert.True(t, ok)
	assert.Len(t, r.Errors, 1)

	_, ok = results.Find(TestID{"login"})
	assert.False(t, ok)
}
