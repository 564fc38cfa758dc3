package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/daniel/moodcine/internal/server/middleware"
	"github.com/daniel/moodcine/internal/session"
	"github.com/daniel/moodcine/internal/types"
)

// analyzeRequest is the body for the analyze routes.
type analyzeRequest struct {
	Text string `json:"text"`
}

// genreView carries one genre bar of the analysis chart.
type genreView struct {
	Genre   string  `json:"genre"`
	Percent float64 `json:"percent"`
}

// analysisView is the render model of a mood document. Intensity and
// genre scores are always canonical percentages here, whatever
// convention the model answered in.
type analysisView struct {
	DetectedMoods    []string    `json:"detected_moods"`
	IntensityPercent float64     `json:"intensity_percent"`
	ThematicKeywords []string    `json:"thematic_keywords"`
	GenreAlignment   []genreView `json:"genre_alignment"`
	SummaryText      string      `json:"summary_text"`
}

// movieView is the render model of one result card.
type movieView struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Overview   string  `json:"overview"`
	Year       string  `json:"year"`
	Rating     float64 `json:"rating"`
	Poster     string  `json:"poster"`
	Match      int     `json:"match"`
	Reason     string  `json:"reason"`
	TrailerURL string  `json:"trailer_url"`
}

// sessionView is the full session snapshot returned by the API.
type sessionView struct {
	ID         string        `json:"id"`
	Page       session.Page  `json:"page"`
	UserPrompt string        `json:"user_prompt"`
	Analysis   *analysisView `json:"analysis"`
	Results    []movieView   `json:"results"`
	Warning    string        `json:"warning,omitempty"`
}

func viewAnalysis(analysis *types.MoodAnalysis) *analysisView {
	if analysis == nil {
		return nil
	}

	genres := make([]genreView, 0, len(analysis.GenreAlignment))
	for _, genre := range analysis.GenreAlignment {
		genres = append(genres, genreView{Genre: genre.Genre, Percent: genre.Percent()})
	}

	return &analysisView{
		DetectedMoods:    analysis.DetectedMoods,
		IntensityPercent: analysis.IntensityPercent(),
		ThematicKeywords: analysis.ThematicKeywords,
		GenreAlignment:   genres,
		SummaryText:      analysis.SummaryText,
	}
}

func viewMovie(record types.MovieRecord) movieView {
	return movieView{
		ID:         record.ID,
		Title:      record.Title,
		Overview:   record.Overview,
		Year:       record.Year,
		Rating:     record.Rating,
		Poster:     record.Poster,
		Match:      record.Match,
		Reason:     record.Reason,
		TrailerURL: record.TrailerURL(),
	}
}

func viewSession(id uuid.UUID, state session.State) sessionView {
	view := sessionView{
		ID:         id.String(),
		Page:       state.Page,
		UserPrompt: state.UserPrompt,
		Analysis:   viewAnalysis(state.Analysis),
		Warning:    state.Warning,
	}

	if state.Results != nil {
		view.Results = make([]movieView, 0, len(state.Results))
		for _, record := range state.Results {
			view.Results = append(view.Results, viewMovie(record))
		}
	}

	return view
}

// handleCreateSession creates a session and returns its signed token.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()

	token, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":    sess.ID.String(),
		"token": token,
	})
}

// resolveSession loads the session named in the path and checks that
// the request's token was issued for it.
func (s *Server) resolveSession(r *http.Request) (*session.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, ErrSessionNotFound
	}

	sess := s.store.Get(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	tokenID, err := middleware.GetSessionID(r)
	if err != nil || tokenID != sess.ID {
		return nil, ErrTokenMismatch
	}

	return sess, nil
}

// handleGetSession returns the session's render-model snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, viewSession(sess.ID, sess.Snapshot()))
}

// handleAnalyze runs the analysis flow for the submitted text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := s.controller.Analyze(r.Context(), sess, req.Text)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, viewSession(sess.ID, state))
}

// handleAnalyzeStream runs the full flow and streams progress as SSE:
// an analysis event, one movie event per resolved title, then done.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	state, err := s.controller.AnalyzeOnly(r.Context(), sess, req.Text)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteEvent("analysis", viewAnalysis(state.Analysis)) //nolint:errcheck

	state, err = s.controller.Recommend(r.Context(), sess, func(_ int, record *types.MovieRecord) {
		if record != nil {
			sse.WriteEvent("movie", viewMovie(*record)) //nolint:errcheck
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	if state.Warning != "" {
		sse.WriteEvent("warning", map[string]string{"warning": state.Warning}) //nolint:errcheck
	}

	sse.WriteDone(string(state.Page))
}

// handleRecommend runs the recommendation flow from the analysis page.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	state, err := s.controller.Recommend(r.Context(), sess, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, viewSession(sess.ID, state))
}

// handleCaption generates the on-demand caption for one result movie.
func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	movieID, err := strconv.ParseInt(r.PathValue("movie_id"), 10, 64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	caption, err := s.controller.Caption(r.Context(), sess, movieID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"caption": caption})
}

// handleReset returns the session to the input screen.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	state := s.controller.Reset(sess)
	s.jsonResponse(w, http.StatusOK, viewSession(sess.ID, state))
}
