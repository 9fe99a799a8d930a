package sanity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		ProjectID: "proj",
		Dataset:   "production",
		Token:     "secret",
		BaseURL:   server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestQueryEncodesParamsAsJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/data/query/production")
		assert.Equal(t, `*[price <= $maxPrice]`, r.URL.Query().Get("query"))
		assert.Equal(t, `500`, r.URL.Query().Get("$maxPrice"))
		assert.Equal(t, `"*lamp*"`, r.URL.Query().Get("$term"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{{"_id": "p-1", "title": "Desk Lamp"}},
		})
	})

	var result []struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	}
	err := client.Query(context.Background(), `*[price <= $maxPrice]`,
		map[string]any{"maxPrice": 500, "term": "*lamp*"}, &result)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Desk Lamp", result[0].Title)
}

func TestQueryNonOKStatusIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query parse error", http.StatusBadRequest)
	})

	var result []any
	err := client.Query(context.Background(), "*[", nil, &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query parse error")
}

func TestCreateSubmitsSingleMutation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/data/mutate/production")

		var payload struct {
			Mutations []map[string]json.RawMessage `json:"mutations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Mutations, 1)
		assert.Contains(t, payload.Mutations[0], "create")

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "order-123"}},
		})
	})

	id, err := client.Create(context.Background(), map[string]any{"_type": "order"})
	require.NoError(t, err)
	assert.Equal(t, "order-123", id)
}

func TestCreateRequiresToken(t *testing.T) {
	client, err := NewClient(Config{ProjectID: "proj", Dataset: "production"})
	require.NoError(t, err)

	_, err = client.Create(context.Background(), map[string]any{"_type": "order"})
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	client, err := NewClient(Config{ProjectID: "proj", Dataset: "production"})
	require.NoError(t, err)

	url, err := client.ImageURL("image-a1b2c3-800x600-png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.sanity.io/images/proj/production/a1b2c3-800x600.png", url)

	for _, ref := range []string{"", "file-a1b2c3-800x600-png", "image-a1b2c3", "image---"} {
		_, err := client.ImageURL(ref)
		assert.Error(t, err, "ref %q should be rejected", ref)
	}
}
