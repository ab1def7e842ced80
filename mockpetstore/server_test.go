package mockpetstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/petmodel"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockClient(t *testing.T, action func(*Server, *harness.Client)) {
	s := NewServer(DefaultBasePath, nil)
	httphelpers.WithServer(s, func(server *httptest.Server) {
		client, err := harness.NewClient(server.URL + DefaultBasePath)
		require.NoError(t, err)
		action(s, client)
	})
}

const thor = `{"id":350675,"category":{"id":1,"name":"dog"},"name":"Thor","photoUrls":[""],` +
	`"tags":[{"id":1,"name":"Vacinado"}],"status":"available"}`

func TestCreateAndReadPet(t *testing.T) {
	withMockClient(t, func(s *Server, c *harness.Client) {
		resp, err := c.Send(context.Background(), "POST", "pet", []byte(thor))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, thor, string(resp.Body))
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		resp, err = c.Send(context.Background(), "GET", "pet/350675", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, thor, string(resp.Body))

		assert.Equal(t, []int64{350675}, s.PetIDs())
	})
}

func TestCreatePetWithoutIDAssignsOne(t *testing.T) {
	withMockClient(t, func(s *Server, c *harness.Client) {
		s.PutPet(petmodel.Pet{ID: 10, Name: "existing"})
		resp, err := c.Send(context.Background(), "POST", "pet", []byte(`{"name":"new"}`))
		require.NoError(t, err)
		parsed, err := petmodel.ParsePetResponse(resp.Body)
		require.NoError(t, err)
		id, err := parsed.RequireID()
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})
}

func TestCreatePetRejectsMalformedBody(t *testing.T) {
	withMockClient(t, func(_ *Server, c *harness.Client) {
		resp, err := c.Send(context.Background(), "POST", "pet", []byte(`{"id":`))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestUpdatePetIsUpsert(t *testing.T) {
	withMockClient(t, func(s *Server, c *harness.Client) {
		resp, err := c.Send(context.Background(), "PUT", "pet", []byte(`{"id":1350675,"name":"Thor","status":"pending"}`))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		pet, ok := s.Pet(1350675)
		require.True(t, ok)
		assert.Equal(t, petmodel.StatusPending, pet.Status)
	})
}

func TestGetUnknownPet(t *testing.T) {
	withMockClient(t, func(_ *Server, c *harness.Client) {
		resp, err := c.Send(context.Background(), "GET", "pet/999", nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.JSONEq(t, `{"code":1,"type":"error","message":"Pet not found"}`, string(resp.Body))

		resp, err = c.Send(context.Background(), "GET", "pet/abc", nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "NumberFormatException")
	})
}

func TestDeletePet(t *testing.T) {
	withMockClient(t, func(s *Server, c *harness.Client) {
		s.PutPet(petmodel.Pet{ID: 350675, Name: "Thor"})

		resp, err := c.Send(context.Background(), "DELETE", "pet/350675", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"code":200,"type":"unknown","message":"350675"}`, string(resp.Body))
		_, ok := s.Pet(350675)
		assert.False(t, ok)

		resp, err = c.Send(context.Background(), "DELETE", "pet/350675", nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Len(t, resp.Body, 0)
	})
}

func TestLogin(t *testing.T) {
	withMockClient(t, func(s *Server, c *harness.Client) {
		s.now = func() time.Time { return time.UnixMilli(1700000000123) }
		resp, err := c.Send(context.Background(), "GET", "user/login?username=joca&password=teste", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Expires-After"))

		parsed, err := petmodel.ParseAPIResponse(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, 200, parsed.Code.IntValue())
		token, err := parsed.LoginToken()
		require.NoError(t, err)
		assert.Equal(t, "1700000000123", token)
		assert.True(t, strings.HasPrefix(parsed.Message.StringValue(), LoginMessagePrefix))
	})
}

func TestUnknownEndpoint(t *testing.T) {
	withMockClient(t, func(_ *Server, c *harness.Client) {
		resp, err := c.Send(context.Background(), "GET", "store/inventory", nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestRootBasePath(t *testing.T) {
	s := NewServer("", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/login?username=a&password=b", nil))
	assert.Equal(t, 200, rec.Code)
}
