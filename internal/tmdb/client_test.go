package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/moodcine/internal/types"
)

// fakeProvider serves canned search responses keyed by query string.
func fakeProvider(t *testing.T, hits map[string][]SearchResult) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/movie", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("api_key"))

		query := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{Results: hits[query]})
	}))
}

func testClient(baseURL string) *Client {
	return NewClient("test-key", &Options{BaseURL: baseURL})
}

func TestSearch_TakesTopHit(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{
		"Inception": {
			{ID: 27205, Title: "Inception", VoteAverage: 8.37, VoteCount: 34000, ReleaseDate: "2010-07-15", Overview: "A thief...", PosterPath: "/incept.jpg"},
			{ID: 999, Title: "Inception: The Cobol Job", VoteAverage: 7.0, VoteCount: 500},
		},
	})
	defer server.Close()

	hit, err := testClient(server.URL).Search(context.Background(), "Inception (2010)")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, int64(27205), hit.ID)
}

func TestSearch_ZeroHits(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{})
	defer server.Close()

	hit, err := testClient(server.URL).Search(context.Background(), "No Such Movie")
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestSearch_RequiresAPIKey(t *testing.T) {
	client := NewClient("", nil)
	_, err := client.Search(context.Background(), "Inception")
	assert.Error(t, err)
}

func TestEnrich_MergesReasonAndDerivesFields(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{
		"Inception": {
			{ID: 27205, Title: "Inception", VoteAverage: 8.37, VoteCount: 34000, ReleaseDate: "2010-07-15", Overview: "A thief...", PosterPath: "/incept.jpg"},
		},
	})
	defer server.Close()

	record, err := testClient(server.URL).Enrich(context.Background(), types.RecommendationStub{
		Title:  "Inception (2010)",
		Reason: "A maze for a restless mind",
	})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Inception", record.Title)
	assert.Equal(t, "2010", record.Year)
	assert.Equal(t, 8.4, record.Rating)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/incept.jpg", record.Poster)
	assert.Equal(t, "A maze for a restless mind", record.Reason)
	assert.Equal(t, MatchScore(8.37, 34000), record.Match)
}

func TestEnrich_MissingFieldPlaceholders(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{
		"Obscurity": {
			{ID: 7, Title: "Obscurity", VoteAverage: 5.0, VoteCount: 3},
		},
	})
	defer server.Close()

	record, err := testClient(server.URL).Enrich(context.Background(), types.RecommendationStub{Title: "Obscurity"})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Synopsis not yet available.", record.Overview)
	assert.Equal(t, "https://via.placeholder.com/500x750", record.Poster)
	assert.Equal(t, "----", record.Year)
	assert.Len(t, record.Year, 4)
}

func TestEnrich_ZeroHitsProducesNoRecord(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{})
	defer server.Close()

	record, err := testClient(server.URL).Enrich(context.Background(), types.RecommendationStub{Title: "Ghost Title"})
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEnrichAll_PreservesStubOrderAndDropsMisses(t *testing.T) {
	server := fakeProvider(t, map[string][]SearchResult{
		"First":  {{ID: 1, Title: "First", VoteAverage: 7, VoteCount: 100, ReleaseDate: "2001-01-01"}},
		"Second": {{ID: 2, Title: "Second", VoteAverage: 6, VoteCount: 50, ReleaseDate: "2002-01-01"}},
		// "Missing" has no hits
		"Fourth": {{ID: 4, Title: "Fourth", VoteAverage: 8, VoteCount: 900, ReleaseDate: "2004-01-01"}},
	})
	defer server.Close()

	stubs := []types.RecommendationStub{
		{Title: "First", Reason: "a"},
		{Title: "Second", Reason: "b"},
		{Title: "Missing", Reason: "c"},
		{Title: "Fourth", Reason: "d"},
	}

	records := testClient(server.URL).EnrichAll(context.Background(), stubs, nil)

	// Final count equals stub count minus miss count, order matches stubs
	require.Len(t, records, 3)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(4), records[2].ID)
	assert.Equal(t, "d", records[2].Reason)
}

func TestEnrichAll_SingleFailureDoesNotAbortBatch(t *testing.T) {
	// Provider returns a server error for one title only
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "Broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []SearchResult{
			{ID: 10, Title: query, VoteAverage: 7, VoteCount: 10, ReleaseDate: "2010-01-01"},
		}})
	}))
	defer server.Close()

	stubs := []types.RecommendationStub{
		{Title: "Fine"},
		{Title: "Broken"},
		{Title: "Also Fine"},
	}

	var seen int
	records := testClient(server.URL).EnrichAll(context.Background(), stubs, func(int, *types.MovieRecord) {
		seen++
	})

	assert.Len(t, records, 2)
	assert.Equal(t, 3, seen, "progress fires for every stub, miss or hit")
}
