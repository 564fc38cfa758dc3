package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/moodcine/internal/llm"
	"github.com/daniel/moodcine/internal/mood"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze free text into a structured mood document",
	Long:  "Analyze a free-text description of how you feel into the structured mood document (moods, intensity, keywords, genre alignment, summary) used to drive recommendations.",
	RunE:  runAnalyze,
}

var (
	analyzeText   string
	analyzeAPIKey string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Free text describing your mood (required)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	_ = analyzeCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	analysis, analysisErr := mood.Analyze(ctx, client, analyzeText)
	if analysisErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: analysis degraded: %v\n", analysisErr)
	}

	jsonBytes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(jsonBytes))
	fmt.Fprintf(os.Stdout, "\nIntensity: %.0f%%\n", analysis.IntensityPercent())

	return nil
}
