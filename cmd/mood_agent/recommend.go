package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/moodcine/internal/config"
	"github.com/daniel/moodcine/internal/llm"
	"github.com/daniel/moodcine/internal/mood"
	"github.com/daniel/moodcine/internal/recommend"
	"github.com/daniel/moodcine/internal/tmdb"
	"github.com/daniel/moodcine/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the full pipeline: mood analysis, suggestions, metadata",
	Long:  "Analyze the given text, ask for matching movies and enrich them with catalog metadata, then print the result list in ranked order.",
	RunE:  runRecommend,
}

var recommendText string

func init() {
	recommendCmd.Flags().StringVarP(&recommendText, "text", "t", "", "Free text describing your mood (required)")
	_ = recommendCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	analysis, analysisErr := mood.Analyze(ctx, client, recommendText)
	if analysisErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: analysis degraded: %v\n", analysisErr)
	}

	summary := mood.Summary(analysis, recommendText)
	fmt.Fprintf(os.Stdout, "Mood: %s\n\n", summary)

	stubs, err := recommend.Generate(ctx, client, summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recommendations degraded: %v\n", err)
	}
	if len(stubs) == 0 {
		fmt.Fprintln(os.Stdout, "No recommendations.")
		return nil
	}

	var tmdbOpts *tmdb.Options
	if cfg.TMDBLanguage != "" {
		tmdbOpts = &tmdb.Options{Language: cfg.TMDBLanguage}
	}
	enricher := tmdb.NewClient(cfg.TMDBAPIKey, tmdbOpts)

	records := enricher.EnrichAll(ctx, stubs, func(_ int, record *types.MovieRecord) {
		if record != nil {
			fmt.Fprintf(os.Stderr, "found: %s\n", record.Title)
		}
	})

	for i, record := range records {
		fmt.Fprintf(os.Stdout, "%d. %s (%s)  rating %.1f  match %d%%\n", i+1, record.Title, record.Year, record.Rating, record.Match)
		fmt.Fprintf(os.Stdout, "   %s\n", record.Reason)
	}

	return nil
}
