package types

import (
	"fmt"
	"net/url"
)

// RecommendationStub is an LLM-suggested movie prior to metadata
// enrichment: a title and the reason it fits the mood. Stub order is the
// model's relevance ranking and is preserved downstream.
type RecommendationStub struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// MovieRecord is a recommendation merged with its metadata-provider search
// hit. A record exists only when the provider returned at least one hit
// for the title; misses are silently dropped, so a results list may be
// shorter than the number of stubs it was built from.
type MovieRecord struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Overview string  `json:"overview"`
	Year     string  `json:"year"`
	Rating   float64 `json:"rating"`
	Poster   string  `json:"poster"`
	Match    int     `json:"match"`
	Reason   string  `json:"reason"`
}

// TrailerURL returns a YouTube search link for the movie's trailer.
func (m *MovieRecord) TrailerURL() string {
	query := url.QueryEscape(m.Title + " trailer")
	return fmt.Sprintf("https://www.youtube.com/results?search_query=%s", query)
}
