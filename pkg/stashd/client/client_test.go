package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListItemsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/groups/3/items", r.URL.Path)
		assert.Equal(t, "secret-token", r.Header.Get(APITokenHeader))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": ItemBuckets{
				Active:   []Item{{ID: 1, Kind: "text", Value: "a", Position: 1}},
				Archived: []Item{{ID: 2, Kind: "url", Value: "https://example.com", Archived: true}},
			},
			"error": nil,
		})
	}))
	defer server.Close()

	c := New(server.URL, "secret-token")
	buckets, err := c.ListItems(3)
	require.NoError(t, err)
	require.Len(t, buckets.Active, 1)
	require.Len(t, buckets.Archived, 1)
	assert.Equal(t, "a", buckets.Active[0].Value)
}

func TestCreateItemPostsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/groups/3/items", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "url", body["kind"])
		assert.Equal(t, "https://example.com", body["value"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":  Item{ID: 42, GroupID: 3, Kind: "url", Value: "https://example.com", Position: 1},
			"error": nil,
		})
	}))
	defer server.Close()

	c := New(server.URL, "secret-token")
	item, err := c.CreateItem(3, "url", "https://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, uint(42), item.ID)
	assert.Equal(t, 1, item.Position)
}

func TestReorderReturnsUpdatedIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/groups/3/items/reorder", r.URL.Path)

		var body map[string][]uint
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []uint{2, 3, 1}, body["ordered_ids"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":  []uint{2, 3, 1},
			"error": nil,
		})
	}))
	defer server.Close()

	c := New(server.URL, "secret-token")
	updated, err := c.Reorder(3, []uint{2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 1}, updated)
}

func TestErrorEnvelopeSurfacesAsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":  nil,
			"error": APIError{Message: "invalid API token", Code: "invalid_api_token"},
		})
	}))
	defer server.Close()

	c := New(server.URL, "bad-token")
	_, err := c.ListGroups()
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_api_token", apiErr.Code)
	assert.Contains(t, err.Error(), "invalid API token")
}

func TestReorderSatisfiesCommitFunc(t *testing.T) {
	c := New("http://localhost:0", "token")
	var _ CommitFunc = c.Reorder
}
