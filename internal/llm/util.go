// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code fence wrappers from a response that
// should contain raw JSON. LLMs often wrap JSON in ```json ... ``` blocks
// even when instructed not to. The fence may appear after preamble text, so
// the whole response is scanned, not just the prefix. Cleaning already-clean
// text returns it unchanged apart from whitespace trimming.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}

	inner := text[start+3:]
	if end := strings.LastIndex(inner, "```"); end >= 0 {
		inner = inner[:end]
	}

	// Skip a language identifier on the opening fence line (json, javascript, ...)
	if idx := strings.Index(inner, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(inner[:idx])
		if firstLine != "" && len(firstLine) < 20 &&
			!strings.ContainsAny(firstLine, " {[\"") {
			inner = inner[idx+1:]
		}
	}

	return strings.TrimSpace(inner)
}
