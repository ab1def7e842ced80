package pettests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/framework/apitest"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/state"

	"golang.org/x/exp/slices"
)

// ErrMissingPrecondition is the error that PreconditionError matches with errors.Is.
var ErrMissingPrecondition = errors.New("missing precondition")

// PreconditionError means a stage could not run because an earlier stage did not leave the
// state it depends on, usually because that stage failed or was filtered out.
type PreconditionError struct {
	Stage   string
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s for stage %q: state %s not set by any earlier stage", ErrMissingPrecondition,
		e.Stage, strings.Join(e.Missing, ", "))
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrMissingPrecondition
}

// StageEnv is everything a stage may use. It is passed to every stage explicitly; stages have
// no other way to share data.
type StageEnv struct {
	Context context.Context
	Client  *harness.Client
	Store   state.Store
	Params  SuiteParams
}

// Stage is one step of an ordered test pipeline.
type Stage struct {
	Name string

	// Requires lists the state keys that must exist before the stage can run.
	Requires []string

	// Produces lists the state keys that the stage must have set if it passes.
	Produces []string

	Run func(t *apitest.T, env StageEnv)
}

// ValidatePipeline checks that stage names are unique and that every required key is produced
// by some earlier stage.
func ValidatePipeline(stages []Stage) error {
	var names, produced []string
	for _, s := range stages {
		if slices.Contains(names, s.Name) {
			return fmt.Errorf("duplicate stage name %q", s.Name)
		}
		names = append(names, s.Name)
		for _, key := range s.Requires {
			if !slices.Contains(produced, key) {
				return fmt.Errorf("stage %q requires %q, which no earlier stage produces", s.Name, key)
			}
		}
		produced = append(produced, s.Produces...)
	}
	return nil
}

// RunPipeline runs each stage as a subtest of t, strictly in order. A stage whose required
// state is missing fails with a *PreconditionError without being called. A stage that passes
// but does not set everything in Produces also fails. Later stages still run after a failure.
func RunPipeline(t *apitest.T, env StageEnv, stages []Stage) {
	if err := ValidatePipeline(stages); err != nil {
		t.Errorf("invalid test pipeline: %s", err)
		return
	}
	for _, stage := range stages {
		t.Run(stage.Name, func(t *apitest.T) {
			logger := t.DebugLogger()
			missing, err := missingKeys(env.Context, env.Store, stage.Requires)
			if err != nil {
				t.Fatalf("could not check state before stage %q: %s", stage.Name, err)
			}
			if len(missing) != 0 {
				t.Errorf("%w", &PreconditionError{Stage: stage.Name, Missing: missing})
				t.FailNow()
			}

			stage.Run(t, env)

			if t.Failed() {
				return
			}
			missing, err = missingKeys(env.Context, env.Store, stage.Produces)
			if err != nil {
				t.Fatalf("could not check state after stage %q: %s", stage.Name, err)
			}
			if len(missing) != 0 {
				t.Errorf("stage %q passed but did not set state %s", stage.Name, strings.Join(missing, ", "))
			}
			logState(env, logger, stage.Produces)
		})
	}
}

func missingKeys(ctx context.Context, store state.Store, keys []string) ([]string, error) {
	var missing []string
	for _, key := range keys {
		has, err := state.Has(ctx, store, key)
		if err != nil {
			return nil, err
		}
		if !has {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

func logState(env StageEnv, logger framework.Logger, keys []string) {
	for _, key := range keys {
		if value, err := env.Store.Get(env.Context, key); err == nil {
			logger.Printf("state %s = %q", key, value)
		}
	}
}
