// Package recommend asks the LLM for movie suggestions matching a mood
// summary and parses them into recommendation stubs.
package recommend

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

const callTimeout = 15 * time.Second

// Generate asks for 4-6 movie suggestions fitting the mood summary.
// Output order is the model's relevance ranking and is preserved.
//
// On any failure it returns an empty slice together with the error: the
// pipeline continues with zero results rather than failing the request.
func Generate(ctx context.Context, client llm.Client, moodSummary string) ([]types.RecommendationStub, error) {
	moodSummary = strings.TrimSpace(moodSummary)
	if moodSummary == "" {
		return nil, &ParseError{Message: "mood summary is empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	prompt := buildSuggestionPrompt(moodSummary)

	responseText, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate recommendations",
			Cause:   err,
		}
	}

	return parseStubs(responseText)
}

// Generator binds Generate to a client so the page flow controller can
// take it as a dependency.
type Generator struct {
	Client llm.Client
}

// Generate implements the controller's recommender dependency.
func (g *Generator) Generate(ctx context.Context, moodSummary string) ([]types.RecommendationStub, error) {
	return Generate(ctx, g.Client, moodSummary)
}

// buildSuggestionPrompt constructs the prompt for movie suggestions
func buildSuggestionPrompt(moodSummary string) string {
	template := prompts.MustGet("recommend.json", "suggest-movies")
	return prompts.Format(template, map[string]string{
		"MoodSummary": moodSummary,
	})
}

// parseStubs de-fences, schema-validates and unmarshals the response
func parseStubs(responseText string) ([]types.RecommendationStub, error) {
	cleaned := llm.CleanJSONBlock(responseText)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	if err := schemas.Validate(schemas.Recommendations, cleaned); err != nil {
		return nil, &ParseError{
			Message: "response does not match recommendations schema",
			Cause:   err,
		}
	}

	var stubs []types.RecommendationStub
	if err := json.Unmarshal([]byte(cleaned), &stubs); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	return stubs, nil
}
