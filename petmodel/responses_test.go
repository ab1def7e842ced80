package petmodel

import (
	"errors"
	"testing"

	"github.com/iterasys/petstore-test-harness/framework/opt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePetResponse(t *testing.T) {
	resp, err := ParsePetResponse([]byte(`{
		"id": 350675,
		"category": {"id": 1, "name": "dog"},
		"name": "Thor",
		"photoUrls": [""],
		"tags": [{"id": 1, "name": "Vacinado"}, {"id": 2, "name": "castrado", "extra": true}],
		"status": "available",
		"unknown": {"a": [1, 2]}
	}`))
	require.NoError(t, err)

	assert.Equal(t, opt.Some(int64(350675)), resp.ID)
	assert.True(t, resp.HasCategory)
	assert.Equal(t, opt.Some(int64(1)), resp.Category.ID)
	assert.Equal(t, ldvalue.NewOptionalString("dog"), resp.Category.Name)
	assert.Equal(t, ldvalue.NewOptionalString("Thor"), resp.Name)
	assert.Equal(t, []string{""}, resp.PhotoURLs)
	require.Len(t, resp.Tags, 2)
	assert.Equal(t, opt.Some(int64(2)), resp.Tags[1].ID)
	assert.Equal(t, ldvalue.NewOptionalString("castrado"), resp.Tags[1].Name)
	assert.Equal(t, ldvalue.NewOptionalString("available"), resp.Status)

	id, err := resp.RequireID()
	require.NoError(t, err)
	assert.Equal(t, int64(350675), id)
}

func TestParsePetResponseDistinguishesAbsentFromZero(t *testing.T) {
	resp, err := ParsePetResponse([]byte(`{"name": "", "status": null}`))
	require.NoError(t, err)

	assert.False(t, resp.ID.IsDefined())
	assert.False(t, resp.HasCategory)
	assert.True(t, resp.Name.IsDefined())
	assert.Equal(t, "", resp.Name.StringValue())
	assert.False(t, resp.Status.IsDefined())

	_, err = resp.RequireID()
	assert.True(t, errors.Is(err, ErrFieldAbsent))
	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "id", mf.Field)

	zero, err := ParsePetResponse([]byte(`{"id": 0}`))
	require.NoError(t, err)
	id, err := zero.RequireID()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestParsePetResponseRejectsMalformedJSON(t *testing.T) {
	for _, body := range []string{
		``, `[]`, `{"id": "abc"}`, `{"id": 1`, `{"id": 1.5}`, `{"id": 99999999999999999999}`,
		`{"category": "dog"}`, `{"tags": {}}`, `{"tags": [1]}`, `{"name": 7}`,
	} {
		_, err := ParsePetResponse([]byte(body))
		assert.Error(t, err, "body: %s", body)
	}
}

func TestParsePetResponseReadsLargeIDsExactly(t *testing.T) {
	resp, err := ParsePetResponse([]byte(`{"id": 9007199254740993, "tags": [{"id": 9223372036854775807}, null]}`))
	require.NoError(t, err)

	id, err := resp.RequireID()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), id)
	require.Len(t, resp.Tags, 2)
	assert.Equal(t, opt.Some(int64(9223372036854775807)), resp.Tags[0].ID)
	assert.False(t, resp.Tags[1].ID.IsDefined())
}

func TestParseAPIResponse(t *testing.T) {
	resp, err := ParseAPIResponse([]byte(`{"code": 200, "type": "unknown", "message": "350675"}`))
	require.NoError(t, err)
	assert.Equal(t, ldvalue.NewOptionalInt(200), resp.Code)
	assert.Equal(t, ldvalue.NewOptionalString("unknown"), resp.Type)
	assert.Equal(t, ldvalue.NewOptionalString("350675"), resp.Message)
}

func TestLoginToken(t *testing.T) {
	for _, p := range []struct {
		message string
		token   string
	}{
		{"logged in user session:1700000000000", "1700000000000"},
		{"a:b:c", "c"},
		{"no-colon", "no-colon"},
		{"trailing:", ""},
	} {
		t.Run(p.message, func(t *testing.T) {
			token, err := APIResponse{Message: ldvalue.NewOptionalString(p.message)}.LoginToken()
			require.NoError(t, err)
			assert.Equal(t, p.token, token)
		})
	}
}

func TestLoginTokenWithoutMessage(t *testing.T) {
	_, err := APIResponse{Code: ldvalue.NewOptionalInt(200)}.LoginToken()
	assert.True(t, errors.Is(err, ErrFieldAbsent))
}
