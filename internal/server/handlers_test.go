package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/moodcine/internal/session"
	"github.com/daniel/moodcine/internal/types"
)

// stubPipeline backs the controller with canned data for handler tests.
type stubPipeline struct {
	analysis    *types.MoodAnalysis
	analysisErr error
	stubs       []types.RecommendationStub
	stubsErr    error
	hits        map[string]*types.MovieRecord
	caption     string
}

func (p *stubPipeline) Analyze(_ context.Context, _ string) (*types.MoodAnalysis, error) {
	if p.analysisErr != nil {
		return types.FallbackAnalysis(), p.analysisErr
	}
	return p.analysis, nil
}

func (p *stubPipeline) Generate(_ context.Context, _ string) ([]types.RecommendationStub, error) {
	return p.stubs, p.stubsErr
}

func (p *stubPipeline) EnrichAll(_ context.Context, stubs []types.RecommendationStub, progress func(int, *types.MovieRecord)) []types.MovieRecord {
	var records []types.MovieRecord
	for i, stub := range stubs {
		record := p.hits[stub.Title]
		if progress != nil {
			progress(i, record)
		}
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}

func (p *stubPipeline) Caption(_ context.Context, _, _ string) string {
	return p.caption
}

func defaultPipeline() *stubPipeline {
	return &stubPipeline{
		analysis: &types.MoodAnalysis{
			DetectedMoods:  []string{"Wistful"},
			IntensityScore: 0.65,
			GenreAlignment: []types.GenreScore{{Genre: "Drama", Score: 80}},
			SummaryText:    "gentle melancholy",
		},
		stubs: []types.RecommendationStub{
			{Title: "Her", Reason: "quiet longing"},
			{Title: "Unknown Film", Reason: "not in the catalog"},
		},
		hits: map[string]*types.MovieRecord{
			"Her": {ID: 42, Title: "Her", Year: "2013", Rating: 8.0, Match: 88, Reason: "quiet longing"},
		},
		caption: "A whisper of a film.",
	}
}

func newTestServer(t *testing.T, pipeline *stubPipeline, combined bool) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	controller := &session.Controller{
		Analyzer:    pipeline,
		Recommender: pipeline,
		Enricher:    pipeline,
		Captioner:   pipeline,
		Combined:    combined,
	}

	srv := New(Config{Port: 0, SessionSecret: "test-secret"}, controller)
	t.Cleanup(func() {
		srv.store.Stop()
		srv.rateLimiter.Stop()
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv *Server) (id, token string) {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created["id"])
	require.NotEmpty(t, created["token"])
	return created["id"], created["token"]
}

func decodeSessionView(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var view sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCreateAndGetSession(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeSessionView(t, rec)
	assert.Equal(t, session.PageInput, view.Page)
	assert.Nil(t, view.Analysis)
	assert.Nil(t, view.Results)
}

func TestSessionRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, _ := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionRoutes_RejectForeignToken(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, _ := createSession(t, srv)
	_, otherToken := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id, otherToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetSession_UnknownID(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	_, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/00000000-0000-0000-0000-000000000000", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFullFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	// Analyze
	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", token, `{"text":"wistful sunday evening"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeSessionView(t, rec)
	assert.Equal(t, session.PageAnalysis, view.Page)
	require.NotNil(t, view.Analysis)
	// 0.65 arrives as a fraction and renders as a percentage
	assert.InDelta(t, 65.0, view.Analysis.IntensityPercent, 0.001)

	// Recommend
	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/recommend", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeSessionView(t, rec)
	assert.Equal(t, session.PageResults, view.Page)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Her", view.Results[0].Title)
	assert.Contains(t, view.Results[0].TrailerURL, "youtube.com")

	// Caption
	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/movies/42/caption", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A whisper of a film.")

	// Reset
	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/reset", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeSessionView(t, rec)
	assert.Equal(t, session.PageInput, view.Page)
	assert.Empty(t, view.UserPrompt)
	assert.Nil(t, view.Analysis)
	assert.Nil(t, view.Results)
}

func TestAnalyze_EmptyText(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", token, `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_DegradedCarriesWarning(t *testing.T) {
	pipeline := defaultPipeline()
	pipeline.analysisErr = errors.New("model unavailable")
	srv := newTestServer(t, pipeline, false)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", token, `{"text":"gloomy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeSessionView(t, rec)
	assert.Equal(t, session.PageAnalysis, view.Page)
	assert.Contains(t, view.Warning, "mood analysis degraded")
	require.NotNil(t, view.Analysis)
	assert.Equal(t, []string{"Error"}, view.Analysis.DetectedMoods)
}

func TestRecommend_WrongPage(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/recommend", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCaption_UnknownMovie(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", token, `{"text":"wistful"}`)
	doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/recommend", token, "")

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/movies/9999/caption", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCombinedAnalyzeLandsOnResults(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), true)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", token, `{"text":"wistful"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeSessionView(t, rec)
	assert.Equal(t, session.PageResults, view.Page)
	require.Len(t, view.Results, 1)
}

func TestAnalyzeStream(t *testing.T) {
	srv := newTestServer(t, defaultPipeline(), false)
	id, token := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze/stream", token, `{"text":"wistful sunday evening"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: analysis")
	assert.Contains(t, body, "event: movie")
	assert.Contains(t, body, `"Her"`)
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, `"results"`)
}
