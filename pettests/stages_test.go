package pettests

import (
	"testing"

	"github.com/iterasys/petstore-test-harness/data"
	"github.com/iterasys/petstore-test-harness/expect"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/petmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyAsResponse(body []byte) harness.Response {
	return harness.Response{Method: "PUT", URL: "http://test/pet", StatusCode: 200, Body: body}
}

func TestUpdatedPetBodyMatchesItsOwnExpectations(t *testing.T) {
	pet := UpdatedPet()
	body, err := petmodel.MarshalIndented(pet)
	require.NoError(t, err)

	assert.NoError(t, expect.Validate(bodyAsResponse(body),
		expect.Field("id", pet.ID),
		expect.Field("category.name", pet.Category.Name),
		expect.Field("tags[1].name", pet.Tags[1].Name),
		expect.Field("status", string(pet.Status)),
	))
	assert.NoError(t, expect.ValidatePetSchema(body))
}

func TestFixturePetBodiesMatchTheirRows(t *testing.T) {
	rows, err := data.ReadAllFixtures("")
	require.NoError(t, err)
	for _, row := range rows {
		pet, err := petmodel.FromFixtureRow(row)
		require.NoError(t, err)
		body, err := petmodel.MarshalIndented(pet)
		require.NoError(t, err)

		assert.NoError(t, expect.Validate(bodyAsResponse(body),
			expect.Field("id", row.PetID),
			expect.Field("name", row.PetName),
			expect.Field("category.id", row.CategoryID),
			expect.Field("status", row.Status),
		), "line %d", row.Line)
	}
}
