// Package types provides type definitions for structured data used throughout the moodcine system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MoodAnalysis represents the structured mood document generated from the
// user's free text. Produced once per submission and immutable thereafter.
type MoodAnalysis struct {
	DetectedMoods    []string     `json:"detected_moods"`
	IntensityScore   float64      `json:"intensity_score"`
	ThematicKeywords []string     `json:"thematic_keywords"`
	GenreAlignment   []GenreScore `json:"genre_alignment"`
	SummaryText      string       `json:"summary_text"`
}

// GenreScore represents how strongly the mood aligns with a single genre
type GenreScore struct {
	Genre string  `json:"genre"`
	Score float64 `json:"score"`
}

// FallbackAnalysis returns the fixed document substituted when mood
// analysis fails for any reason (blocked response, malformed JSON, schema
// mismatch). It keeps the rest of the pipeline well-shaped.
func FallbackAnalysis() *MoodAnalysis {
	return &MoodAnalysis{
		DetectedMoods:    []string{"Error"},
		IntensityScore:   0,
		ThematicKeywords: []string{"#TryAgain"},
		GenreAlignment:   []GenreScore{{Genre: "Error", Score: 0}},
		SummaryText:      "System Error...",
	}
}

// IsFallback reports whether the analysis is the fixed error document.
func (m *MoodAnalysis) IsFallback() bool {
	return len(m.DetectedMoods) == 1 && m.DetectedMoods[0] == "Error"
}

// IntensityPercent returns the intensity as a canonical percentage in
// [0,100]. Models answer with either a fraction in [0,1] or a percentage
// in [0,100]; any value above 1 is treated as already being a percentage.
// This dual convention is a deliberate compatibility shim.
func (m *MoodAnalysis) IntensityPercent() float64 {
	return percent(m.IntensityScore)
}

// Percent returns the genre score as a canonical percentage in [0,100],
// applying the same fraction-or-percentage convention as intensity.
func (g GenreScore) Percent() float64 {
	return percent(g.Score)
}

func percent(v float64) float64 {
	if v <= 1 {
		v *= 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PrimaryMood returns the first detected mood, used as the display context
// for captions and headers. Empty when no moods were detected.
func (m *MoodAnalysis) PrimaryMood() string {
	if len(m.DetectedMoods) == 0 {
		return ""
	}
	return m.DetectedMoods[0]
}
