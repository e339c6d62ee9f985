package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

type recordedRequest struct {
	Method, Path string
	Body         map[string]any
}

type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	reply    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(b, &body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = io.WriteString(w, f.reply)
}

func newTestIndex(t *testing.T, f *fakeES) *ItemIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewItemIndex(es, "items")
}

func TestIndex_PutsDocument(t *testing.T) {
	f := &fakeES{reply: `{"result":"created"}`}
	x := newTestIndex(t, f)

	it := entity.Item{ID: 12, SellerID: 3, Title: "Desk lamp", Price: 500, Category: "Furniture",
		Quantity: 1, Status: entity.ItemActive, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, x.Index(context.Background(), it, "Jane"))

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/items/_doc/12", req.Path)
	assert.Equal(t, "Jane", req.Body["seller_name"])
	assert.Equal(t, "active", req.Body["listing_status"])
}

func TestRemove_IgnoresMissing(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, reply: `{"result":"not_found"}`}
	x := newTestIndex(t, f)
	assert.NoError(t, x.Remove(context.Background(), 5))
	assert.Equal(t, "/items/_doc/5", f.requests[0].Path)
}

func TestSearch_FiltersVisibleAndParsesHits(t *testing.T) {
	f := &fakeES{reply: `{"hits":{"hits":[{"_source":{"item_id":12,"title":"Desk lamp","price":500,
		"category":"Furniture","seller_name":"Jane","created_at":"2026-01-02T03:04:05Z"}}]}}`}
	x := newTestIndex(t, f)

	out, err := x.Search(context.Background(), " lamp ", 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(12), out[0].ID)
	assert.Equal(t, "Jane", out[0].SellerName)
	assert.Equal(t, 2026, out[0].CreatedAt.Year())

	require.Len(t, f.requests, 1)
	assert.Equal(t, "/items/_search", f.requests[0].Path)
	assert.EqualValues(t, 5, f.requests[0].Body["size"])
	filter := f.requests[0].Body["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
	assert.Len(t, filter, 2)
}

func TestSearch_MissingIndexIsEmpty(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, reply: `{"error":"index_not_found_exception"}`}
	out, err := newTestIndex(t, f).Search(context.Background(), "lamp", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearch_ServerError(t *testing.T) {
	f := &fakeES{status: http.StatusInternalServerError, reply: `{}`}
	_, err := newTestIndex(t, f).Search(context.Background(), "lamp", 5)
	assert.Error(t, err)
}

func TestEnsureIndex_SkipsExisting(t *testing.T) {
	f := &fakeES{}
	x := newTestIndex(t, f)
	require.NoError(t, x.EnsureIndex(context.Background()))
	require.Len(t, f.requests, 1)
	assert.Equal(t, http.MethodHead, f.requests[0].Method)
	assert.Equal(t, "/items", f.requests[0].Path)
}
