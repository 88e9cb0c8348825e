package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "legal-workers/internal/common/errors"
	"legal-workers/internal/store"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *FIRIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewFIRIndex(client, "fir_reports")
}

func TestBuildQuery(t *testing.T) {
	t.Run("match all", func(t *testing.T) {
		body := BuildQuery(Query{}.Normalize())
		assert.Contains(t, body["query"], "match_all")
		assert.Equal(t, DefaultPageSize, body["size"])
	})

	t.Run("text and filters", func(t *testing.T) {
		body := BuildQuery(Query{Text: " stolen phone ", Status: "pending", CrimeType: "Theft", Size: 500}.Normalize())
		assert.Equal(t, MaxPageSize, body["size"])

		raw, err := json.Marshal(body)
		require.NoError(t, err)
		s := string(raw)
		assert.Contains(t, s, `"query":"stolen phone"`)
		assert.Contains(t, s, `{"term":{"status":"pending"}}`)
		assert.Contains(t, s, `{"term":{"crimeType":"theft"}}`)
		assert.NotContains(t, s, "userId")
	})
}

func TestFIRIndex_Index(t *testing.T) {
	var path string
	var doc Document
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	fir := store.FIR{
		ID: "fir-1", UserID: "user-1", FIRNumber: "FIR/2026/000001", CrimeType: "theft",
		Description: "bike stolen", IPCSections: []string{"379"}, Status: "pending",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, x.Index(context.Background(), fir))
	assert.Equal(t, "PUT /fir_reports/_doc/fir-1", path)
	assert.Equal(t, "FIR/2026/000001", doc.FIRNumber)
	assert.Equal(t, []string{"379"}, doc.IPCSections)
}

func TestFIRIndex_Search(t *testing.T) {
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/fir_reports/_search"))
		_, _ = w.Write([]byte(`{
			"took": 3,
			"hits": {
				"total": {"value": 2},
				"max_score": 1.5,
				"hits": [
					{"_source": {"id": "fir-2", "firNumber": "FIR/2026/000002", "status": "pending"}},
					{"_source": {"id": "fir-1", "firNumber": "FIR/2026/000001", "status": "pending"}}
				]
			}
		}`))
	})

	res, err := x.Search(context.Background(), Query{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 1.5, res.MaxScore)
	require.Len(t, res.FIRs, 2)
	assert.Equal(t, "fir-2", res.FIRs[0].ID)
}

func TestFIRIndex_SearchErrors(t *testing.T) {
	t.Run("missing index", func(t *testing.T) {
		x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
		})
		_, err := x.Search(context.Background(), Query{})
		assert.Equal(t, apperrors.ErrCodeIndexNotFound, apperrors.CodeOf(err))
	})

	t.Run("bad request", func(t *testing.T) {
		x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception"},"status":400}`))
		})
		_, err := x.Search(context.Background(), Query{Text: "x"})
		assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.CodeOf(err))
	})
}
