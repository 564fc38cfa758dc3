// Package tmdb provides the movie metadata client: title search against
// the provider's API and enrichment of LLM recommendations into displayable
// movie records.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daniel/moodcine/internal/types"
)

const (
	// DefaultBaseURL is the metadata provider's API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is the localization sent with every search.
	DefaultLanguage = "en-US"
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 15 * time.Second

	// posterBaseURL prefixes the provider's poster paths.
	posterBaseURL = "https://image.tmdb.org/t/p/w500"
	// placeholderPoster stands in when a hit has no poster path.
	placeholderPoster = "https://via.placeholder.com/500x750"
	// placeholderOverview stands in when a hit has no synopsis.
	placeholderOverview = "Synopsis not yet available."
	// unknownYear is the 4-character token for a missing release date.
	unknownYear = "----"

	// enrichConcurrency caps the parallel per-title lookups in EnrichAll.
	enrichConcurrency = 4
)

// Client queries the movie metadata provider.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	language   string
}

// Options configures a Client beyond its API key.
type Options struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// NewClient creates a metadata client. opts may be nil for defaults.
func NewClient(apiKey string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		language:   opts.Language,
	}
}

// searchResponse mirrors the provider's search payload.
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult is a single ranked hit from the provider.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
}

// Search queries the provider's title search and returns the first
// (highest-ranked) hit, or nil when there are no hits.
func (c *Client) Search(ctx context.Context, title string) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, &Error{Title: title, Message: "API key is required"}
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("query", CleanTitle(title))
	query.Set("language", c.language)

	reqURL := fmt.Sprintf("%s/search/movie?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Title: title, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Title: title, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Title: title, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Title: title, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Title: title, Message: "failed to parse response", Cause: err}
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}
	return &payload.Results[0], nil
}

// Enrich looks up a stub's title and merges the top hit with the stub's
// reason. Zero hits yield (nil, nil): the title is dropped, not retried.
func (c *Client) Enrich(ctx context.Context, stub types.RecommendationStub) (*types.MovieRecord, error) {
	hit, err := c.Search(ctx, stub.Title)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}
	return c.record(hit, stub.Reason), nil
}

// record converts a search hit into a MovieRecord, applying the
// missing-field placeholders and the derived match score.
func (c *Client) record(hit *SearchResult, reason string) *types.MovieRecord {
	overview := hit.Overview
	if overview == "" {
		overview = placeholderOverview
	}

	year := unknownYear
	if len(hit.ReleaseDate) >= 4 {
		year = hit.ReleaseDate[:4]
	}

	poster := placeholderPoster
	if hit.PosterPath != "" {
		poster = posterBaseURL + hit.PosterPath
	}

	return &types.MovieRecord{
		ID:       hit.ID,
		Title:    hit.Title,
		Overview: overview,
		Year:     year,
		Rating:   math.Round(hit.VoteAverage*10) / 10,
		Poster:   poster,
		Match:    MatchScore(hit.VoteAverage, hit.VoteCount),
		Reason:   reason,
	}
}

// EnrichAll enriches every stub and returns the successful records in stub
// order. Lookups run concurrently but order is an observable contract, so
// results are collected by index before compacting. A failed or missed
// title only shortens the list.
//
// progress, when non-nil, is invoked as each title completes (in
// completion order) with the stub index and the record, or nil for a miss.
func (c *Client) EnrichAll(ctx context.Context, stubs []types.RecommendationStub, progress func(index int, record *types.MovieRecord)) []types.MovieRecord {
	slots := make([]*types.MovieRecord, len(stubs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	var progressMu sync.Mutex
	for i, stub := range stubs {
		g.Go(func() error {
			record, err := c.Enrich(ctx, stub)
			if err != nil {
				record = nil // per-title failure degrades to a miss
			}
			slots[i] = record
			if progress != nil {
				progressMu.Lock()
				progress(i, record)
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	records := make([]types.MovieRecord, 0, len(stubs))
	for _, record := range slots {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}
