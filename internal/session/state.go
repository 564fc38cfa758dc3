// Package session owns the per-user page flow: the state machine driving
// which screen is shown and which orchestration step runs on each
// transition. One session is owned by exactly one user; nothing is shared
// across sessions and nothing survives a restart.
package session

import "github.com/daniel/moodcine/internal/types"

// Page identifies the screen the session is currently on.
type Page string

// Page flow states.
const (
	PageInput    Page = "input"
	PageLoading  Page = "loading"
	PageAnalysis Page = "analysis"
	PageResults  Page = "results"
)

// State is the full session state. It is mutated only through the
// transition helpers below, which keep the flow invariants:
// Results is non-nil only on PageResults, Analysis is non-nil on
// PageAnalysis and PageResults, and PageInput holds no data at all.
type State struct {
	Page       Page                `json:"page"`
	UserPrompt string              `json:"user_prompt"`
	Analysis   *types.MoodAnalysis `json:"analysis,omitempty"`
	Results    []types.MovieRecord `json:"results,omitempty"`
	Warning    string              `json:"warning,omitempty"`
}

// NewState returns the initial state: the input screen with every data
// field empty.
func NewState() State {
	return State{Page: PageInput}
}

// submit captures the user's prompt and moves to the loading screen.
func (s State) submit(prompt string) State {
	return State{
		Page:       PageLoading,
		UserPrompt: prompt,
	}
}

// withAnalysis stores the mood document and moves to the analysis
// dashboard. warning carries any non-fatal degradation message.
func (s State) withAnalysis(analysis *types.MoodAnalysis, warning string) State {
	s.Page = PageAnalysis
	s.Analysis = analysis
	s.Results = nil
	s.Warning = warning
	return s
}

// withResults stores the enriched movie list, possibly empty, and moves
// to the results grid.
func (s State) withResults(results []types.MovieRecord, warning string) State {
	s.Page = PageResults
	if results == nil {
		results = []types.MovieRecord{}
	}
	s.Results = results
	s.Warning = warning
	return s
}

// reset returns to the initial input screen from any state.
func (s State) reset() State {
	return NewState()
}
