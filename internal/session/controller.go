package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daniel/moodcine/internal/mood"
	"github.com/daniel/moodcine/internal/types"
)

// Flow errors returned when an operation is attempted from the wrong state.
var (
	// ErrEmptyPrompt is returned when submitted text is empty; the submit
	// action is a no-op until the user types something.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrInvalidTransition is returned when an operation does not apply to
	// the session's current page.
	ErrInvalidTransition = errors.New("operation not valid in current state")
	// ErrMovieNotFound is returned when a caption is requested for a movie
	// that is not in the results list.
	ErrMovieNotFound = errors.New("movie not in results")
)

// Analyzer produces a mood document from user text. The document is never
// nil; a non-nil error marks it as degraded (fallback content).
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*types.MoodAnalysis, error)
}

// Recommender suggests movies for a mood summary. A failure yields an
// empty list plus the error.
type Recommender interface {
	Generate(ctx context.Context, moodSummary string) ([]types.RecommendationStub, error)
}

// Enricher resolves stubs against the metadata provider, preserving stub
// order and dropping misses.
type Enricher interface {
	EnrichAll(ctx context.Context, stubs []types.RecommendationStub, progress func(index int, record *types.MovieRecord)) []types.MovieRecord
}

// Captioner produces the detail-view blurb; it never fails.
type Captioner interface {
	Caption(ctx context.Context, title, moodContext string) string
}

// Controller drives the page flow. Transitions are the pure helpers on
// State; the controller adds the side-effecting orchestration calls and
// serializes them per session.
type Controller struct {
	Analyzer    Analyzer
	Recommender Recommender
	Enricher    Enricher
	Captioner   Captioner

	// Combined collapses the separate analysis screen: a single submit
	// runs analysis and recommendations back to back, landing directly on
	// the results grid. Both shapes honor the same ordering contract.
	Combined bool
}

// Analyze handles Input -> Loading -> Analysis. The analysis step always
// succeeds in the sense that a well-shaped document is stored; a
// degraded document is reported through the state's Warning field.
// With Combined set, the flow continues straight into Recommend.
func (c *Controller) Analyze(ctx context.Context, sess *Session, text string) (State, error) {
	if strings.TrimSpace(text) == "" {
		return sess.Snapshot(), ErrEmptyPrompt
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	c.analyzeLocked(ctx, sess, text)

	if c.Combined {
		c.recommendLocked(ctx, sess, nil)
	}

	return sess.state, nil
}

// AnalyzeOnly runs just the analysis step and stops on the analysis
// page even when Combined is set. The streaming route uses it to
// interleave its own recommend step with progress events.
func (c *Controller) AnalyzeOnly(ctx context.Context, sess *Session, text string) (State, error) {
	if strings.TrimSpace(text) == "" {
		return sess.Snapshot(), ErrEmptyPrompt
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	c.analyzeLocked(ctx, sess, text)
	return sess.state, nil
}

// analyzeLocked runs the submit and analysis transitions. Caller holds
// the session lock.
func (c *Controller) analyzeLocked(ctx context.Context, sess *Session, text string) {
	sess.state = sess.state.submit(text)

	analysis, err := c.Analyzer.Analyze(ctx, text)
	warning := ""
	if err != nil {
		warning = fmt.Sprintf("mood analysis degraded: %v", err)
	}
	sess.state = sess.state.withAnalysis(analysis, warning)
}

// Recommend handles Analysis -> Results on explicit user confirmation.
// progress, when non-nil, receives per-title enrichment updates.
func (c *Controller) Recommend(ctx context.Context, sess *Session, progress func(index int, record *types.MovieRecord)) (State, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state.Page != PageAnalysis {
		return sess.state, fmt.Errorf("%w: recommend from %q", ErrInvalidTransition, sess.state.Page)
	}

	c.recommendLocked(ctx, sess, progress)
	return sess.state, nil
}

// recommendLocked runs the recommendation and enrichment steps and stores
// the accumulated records, even when empty. Caller holds the session lock.
func (c *Controller) recommendLocked(ctx context.Context, sess *Session, progress func(index int, record *types.MovieRecord)) {
	summary := mood.Summary(sess.state.Analysis, sess.state.UserPrompt)

	stubs, err := c.Recommender.Generate(ctx, summary)
	warning := sess.state.Warning
	if err != nil {
		warning = fmt.Sprintf("recommendations degraded: %v", err)
	}

	records := c.Enricher.EnrichAll(ctx, stubs, progress)
	sess.state = sess.state.withResults(records, warning)
}

// Caption generates the on-demand blurb for one movie in the results.
func (c *Controller) Caption(ctx context.Context, sess *Session, movieID int64) (string, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state.Page != PageResults {
		return "", fmt.Errorf("%w: caption from %q", ErrInvalidTransition, sess.state.Page)
	}

	for _, record := range sess.state.Results {
		if record.ID == movieID {
			return c.Captioner.Caption(ctx, record.Title, sess.state.Analysis.PrimaryMood()), nil
		}
	}
	return "", ErrMovieNotFound
}

// Reset returns the session to the input screen from any state, clearing
// the prompt, the analysis and the results unconditionally.
func (c *Controller) Reset(sess *Session) State {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state = sess.state.reset()
	return sess.state
}
