package petmodel

import (
	"errors"
	"testing"

	"github.com/iterasys/petstore-test-harness/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTags(t *testing.T) {
	tags, err := BuildTags("1;2", "Vacinado;castrado")
	require.NoError(t, err)
	assert.Equal(t, []Tag{{1, "Vacinado"}, {2, "castrado"}}, tags)

	tags, err = BuildTags("7", "único")
	require.NoError(t, err)
	assert.Equal(t, []Tag{{7, "único"}}, tags)
}

func TestBuildTagsRejectsMismatchedLengths(t *testing.T) {
	for _, p := range [][2]string{
		{"1;2", "Vacinado"},
		{"1", "Vacinado;castrado"},
	} {
		_, err := BuildTags(p[0], p[1])
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "ids %q names %q", p[0], p[1])
	}
}

func TestBuildTagsRejectsNonNumericID(t *testing.T) {
	_, err := BuildTags("1;x", "a;b")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Error(), `"x"`)
}

func TestFromFixtureRow(t *testing.T) {
	pet, err := FromFixtureRow(data.FixtureRow{
		PetID:        350676,
		CategoryID:   1,
		CategoryName: "dog",
		PetName:      "Rex",
		PhotoURLs:    "",
		TagIDs:       "1;2",
		TagNames:     "Vacinado;castrado",
		Status:       "available",
		Line:         2,
	})
	require.NoError(t, err)
	assert.Equal(t, Pet{
		ID:        350676,
		Category:  Category{1, "dog"},
		Name:      "Rex",
		PhotoURLs: []string{""},
		Tags:      []Tag{{1, "Vacinado"}, {2, "castrado"}},
		Status:    StatusAvailable,
	}, pet)
}

func TestFromFixtureRowReportsLine(t *testing.T) {
	_, err := FromFixtureRow(data.FixtureRow{TagIDs: "1;2", TagNames: "a", Line: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 9")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestUnknownStatusIsPassedThrough(t *testing.T) {
	pet := BuildPet(1, Category{}, "x", nil, nil, Status("adopted"))
	body, err := MarshalIndented(pet)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status": "adopted"`)
}

func TestMarshalIndentedUsesAPIPropertyNames(t *testing.T) {
	pet := BuildPet(1350675, Category{1, "dog"}, "Thor", []string{""},
		[]Tag{{1, "Vacinado"}, {2, "castrado"}}, StatusPending)
	body, err := MarshalIndented(pet)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1350675,
		"category": {"id": 1, "name": "dog"},
		"name": "Thor",
		"photoUrls": [""],
		"tags": [{"id": 1, "name": "Vacinado"}, {"id": 2, "name": "castrado"}],
		"status": "pending"
	}`, string(body))
}
