// Package mood analyzes user free text into a structured mood document
// using LLM extraction.
package mood

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/daniel/moodcine/internal/llm"
	"github.com/daniel/moodcine/internal/prompts"
	"github.com/daniel/moodcine/internal/schemas"
	"github.com/daniel/moodcine/internal/types"
)

// callTimeout bounds a single generation call. A timeout is an ordinary
// failure of that call, not a distinct error kind.
const callTimeout = 15 * time.Second

// Analyze extracts a structured MoodAnalysis from the user's text.
//
// The returned analysis is never nil: on any failure (blocked or empty
// response, malformed JSON, schema mismatch) it is the fixed fallback
// document, and the error describes the failure so the caller can surface
// it as a non-fatal warning.
func Analyze(ctx context.Context, client llm.Client, userText string) (*types.MoodAnalysis, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return types.FallbackAnalysis(), &ParseError{Message: "user text is empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	prompt := buildAnalysisPrompt(userText)

	responseText, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return types.FallbackAnalysis(), &APICallError{
			Message: "failed to generate mood analysis",
			Cause:   err,
		}
	}

	analysis, err := parseAnalysis(responseText)
	if err != nil {
		return types.FallbackAnalysis(), err
	}

	return analysis, nil
}

// buildAnalysisPrompt constructs the prompt for structured mood extraction
func buildAnalysisPrompt(userText string) string {
	template := prompts.MustGet("mood.json", "analyze-mood")
	return prompts.Format(template, map[string]string{
		"UserText": userText,
	})
}

// parseAnalysis de-fences, schema-validates and unmarshals the response
func parseAnalysis(responseText string) (*types.MoodAnalysis, error) {
	cleaned := llm.CleanJSONBlock(responseText)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	if err := schemas.Validate(schemas.MoodAnalysis, cleaned); err != nil {
		return nil, &ParseError{
			Message: "response does not match mood analysis schema",
			Cause:   err,
		}
	}

	var analysis types.MoodAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	return &analysis, nil
}

// Analyzer binds Analyze to a client so the page flow controller can
// take it as a dependency.
type Analyzer struct {
	Client llm.Client
}

// Analyze implements the controller's analyzer dependency.
func (a *Analyzer) Analyze(ctx context.Context, userText string) (*types.MoodAnalysis, error) {
	return Analyze(ctx, a.Client, userText)
}

// Summary returns the text used to seed recommendation generation: the
// analysis summary, or the raw user prompt when the summary is empty.
func Summary(analysis *types.MoodAnalysis, userPrompt string) string {
	if analysis != nil && strings.TrimSpace(analysis.SummaryText) != "" && !analysis.IsFallback() {
		return analysis.SummaryText
	}
	return userPrompt
}
