package apitest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/iterasys/petstore-test-harness/framework/apitest/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStacktrace(t *testing.T) {
	_ = Run(TestConfiguration{}, func(at *T) {
		at.Run("without filtering", func(*T) {
			stack := getStacktrace(true, nil)
			require.Greater(t, len(stack), 1)
			assert.Equal(t, currentPackageName(), stack[0].Package)
			assert.Contains(t, stack[0].Function, "TestStacktrace.")
		})

		at.Run("auto-filtering removes runner frames", func(*T) {
			internal.RunAction(func() {
				stack := getStacktrace(false, nil)
				require.Len(t, stack, 1)
				assert.Equal(t, currentPackageName()+"/internal", stack[0].Package)
				assert.Equal(t, "RunAction", stack[0].Function)
			})
		})
	})
}

func TestTransformErrorStripsTestifyTrace(t *testing.T) {
	err := transformError(errors.New("\n\tError Trace:\tfoo.go:1\n\tError:      \tNot equal"), nil)
	assert.Equal(t, "Not equal", err.Error())
}

func TestParsePackageAndFunctionName(t *testing.T) {
	p, f := parsePackageAndFunctionName("github.com/a/b/pettests.(*stage).run")
	assert.Equal(t, "github.com/a/b/pettests", p)
	assert.Equal(t, "(*stage).run", f)
}

var errTestSentinel = errors.New("sentinel")

func TestTransformErrorKeepsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", errTestSentinel)

	withTrace := transformError(wrapped, []StacktraceInfo{{FileName: "x.go", Line: 1}})
	assert.True(t, errors.Is(withTrace, errTestSentinel))
	assert.Equal(t, "context: sentinel", withTrace.Error())

	assert.True(t, errors.Is(transformError(wrapped, nil), errTestSentinel))
}
