package expect

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/framework/helpers"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PetSchema is the JSON schema that a pet response body must satisfy.
//
//go:embed schemas/pet.json
var PetSchema string

const petSchemaURL = "pet.json"

var (
	petSchemaOnce     sync.Once          //nolint:gochecknoglobals
	petSchemaCompiled *jsonschema.Schema //nolint:gochecknoglobals
	petSchemaErr      error              //nolint:gochecknoglobals
)

func compiledPetSchema() (*jsonschema.Schema, error) {
	petSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(petSchemaURL, strings.NewReader(PetSchema)); err != nil {
			petSchemaErr = fmt.Errorf("failed to add pet schema: %w", err)
			return
		}
		petSchemaCompiled, petSchemaErr = compiler.Compile(petSchemaURL)
	})
	return petSchemaCompiled, petSchemaErr
}

// ValidatePetSchema checks a response body against PetSchema.
func ValidatePetSchema(body []byte) error {
	schema, err := compiledPetSchema()
	if err != nil {
		return err
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedBody, err)
	}
	return schema.Validate(doc)
}

// CheckPetSchema is the test-scope form of ValidatePetSchema. A violation is reported as a
// test error without stopping the test, since the field checks usually say more.
func CheckPetSchema(t helpers.TestContext, resp harness.Response) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if err := ValidatePetSchema(resp.Body); err != nil {
		t.Errorf("%s %s: response does not match the pet schema: %s", resp.Method, resp.URL, err)
	}
}
