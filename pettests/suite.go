package pettests

import (
	"context"
	"fmt"
	"os"

	"github.com/iterasys/petstore-test-harness/framework/apitest"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/state"
)

// Credentials used by the login stage when none are configured.
const (
	DefaultUsername = "joca"
	DefaultPassword = "teste"
)

// SuiteParams configures a run of the pet store suite.
type SuiteParams struct {
	// FixturePath is the fixture file for the data-driven stage; empty means the built-in one.
	FixturePath string

	// BodyPath is the body file for the create stage; empty means the built-in one.
	BodyPath string

	Username string
	Password string

	// SkipSchemaCheck turns off the JSON schema check of pet responses.
	SkipSchemaCheck bool
}

func (p SuiteParams) withDefaults() SuiteParams {
	if p.Username == "" {
		p.Username = DefaultUsername
	}
	if p.Password == "" {
		p.Password = DefaultPassword
	}
	return p
}

// RunPetStoreTestSuite runs every stage against the API that client points to, using store to
// pass state between stages.
func RunPetStoreTestSuite(
	ctx context.Context,
	client *harness.Client,
	store state.Store,
	params SuiteParams,
	filter apitest.Filter,
	testLogger apitest.TestLogger,
) apitest.Results {
	fmt.Printf("Running pet store test suite against %s\n", client.BaseURL())
	fmt.Println()
	if rf, ok := filter.(apitest.RegexFilters); ok {
		rf.Describe(os.Stdout)
	}

	env := StageEnv{
		Context: ctx,
		Client:  client,
		Store:   store,
		Params:  params.withDefaults(),
	}
	config := apitest.TestConfiguration{
		Filter:     filter,
		TestLogger: testLogger,
	}
	return apitest.Run(config, func(t *apitest.T) {
		RunPipeline(t, env, PetStoreStages())
	})
}
