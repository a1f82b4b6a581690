package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garage_market/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":7}},{"_source":{"id":3}}]}}`)
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/404"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newIndex(t *testing.T) (*GarageIndex, *fakeES) {
	t.Helper()
	f := &fakeES{}
	srv := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewGarageIndex(client, "garages"), f
}

func TestGarageIndex_PutAndRemove(t *testing.T) {
	idx, f := newIndex(t)
	ctx := t.Context()

	require.NoError(t, idx.Put(ctx, &models.Garage{ID: 5, Name: "Harbor Deck", Location: "Waterfront", PricePerHour: 3}))
	require.NoError(t, idx.Remove(ctx, 5))
	require.NoError(t, idx.Remove(ctx, 404))

	require.Len(t, f.requests, 3)
	assert.Equal(t, "PUT /garages/_doc/5", f.requests[0])
	assert.Equal(t, "DELETE /garages/_doc/5", f.requests[1])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies[0]), &doc))
	assert.Equal(t, "Harbor Deck", doc["name"])
}

func TestGarageIndex_SearchReturnsIDsInOrder(t *testing.T) {
	idx, f := newIndex(t)

	total, ids, err := idx.Search(t.Context(), "harbor", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{7, 3}, ids)

	require.Len(t, f.bodies, 1)
	assert.Contains(t, f.bodies[0], `"multi_match"`)
	assert.Contains(t, f.bodies[0], `"harbor"`)
}
