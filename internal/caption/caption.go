// Package caption generates the short personalized blurb shown in a
// movie's detail view.
package caption

import (
	"context"
	"strings"
	"time"

	"github.com/daniel/moodcine/internal/llm"
	"github.com/daniel/moodcine/internal/prompts"
)

const callTimeout = 10 * time.Second

// Fallback is the filler sentence used when generation fails.
const Fallback = "This film is waiting for you."

// Generate produces a one-sentence creative caption for a movie in the
// context of the viewer's mood. It is invoked lazily, only when a detail
// view is opened, and never fails: any error yields the fixed filler.
func Generate(ctx context.Context, client llm.Client, title, moodContext string) string {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	template := prompts.MustGet("caption.json", "creative-caption")
	prompt := prompts.Format(template, map[string]string{
		"Title": title,
		"Mood":  moodContext,
	})

	text, err := client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return Fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback
	}
	return text
}

// Generator binds Generate to a client so the page flow controller can
// take it as a dependency.
type Generator struct {
	Client llm.Client
}

// Caption implements the controller's captioner dependency.
func (g *Generator) Caption(ctx context.Context, title, moodContext string) string {
	return Generate(ctx, g.Client, title, moodContext)
}
