package tmdb

import (
	"regexp"
	"strings"
)

// trailingParenthetical matches a parenthesized suffix such as a year
// tag: "Inception (2010)". The provider's search is title-only and a
// trailing year token degrades match quality.
var trailingParenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// CleanTitle strips a trailing parenthetical from a movie title before it
// is used as a search query. Titles without one are returned unchanged.
func CleanTitle(title string) string {
	return strings.TrimSpace(trailingParenthetical.ReplaceAllString(title, ""))
}

// MatchScore derives the displayed 0-99 match percentage from a hit's
// average rating (0-10 scale) and vote count.
//
// The 1/(c+1) term discounts low-vote-count titles: full discount at
// zero votes, vanishing as the count grows. Offset +10, capped at 99.
func MatchScore(rating float64, voteCount int) int {
	if voteCount < 0 {
		voteCount = 0
	}
	base := rating * 10
	score := int(base*(1-1/float64(voteCount+1)) + 10)
	if score > 99 {
		return 99
	}
	return score
}
