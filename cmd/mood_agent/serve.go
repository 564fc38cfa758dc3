package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/moodcine/internal/caption"
	"github.com/daniel/moodcine/internal/config"
	"github.com/daniel/moodcine/internal/llm"
	"github.com/daniel/moodcine/internal/mood"
	"github.com/daniel/moodcine/internal/recommend"
	"github.com/daniel/moodcine/internal/server"
	"github.com/daniel/moodcine/internal/session"
	"github.com/daniel/moodcine/internal/tmdb"
)

var (
	servePort     int
	serveCombined bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the session-based recommendation flow: mood analysis, movie suggestions, metadata enrichment and on-demand captions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveCombined, "combined", false, "Collapse the analysis screen: one submit runs analysis and recommendations")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	controller := buildController(client, cfg, serveCombined)

	srv := server.New(server.Config{
		Port:          cfg.Port,
		SessionSecret: cfg.SessionSecret,
	}, controller)

	return srv.Start()
}

// buildController assembles the recommendation pipeline behind the page
// flow controller.
func buildController(client llm.Client, cfg *config.Config, combined bool) *session.Controller {
	var tmdbOpts *tmdb.Options
	if cfg.TMDBLanguage != "" {
		tmdbOpts = &tmdb.Options{Language: cfg.TMDBLanguage}
	}

	return &session.Controller{
		Analyzer:    &mood.Analyzer{Client: client},
		Recommender: &recommend.Generator{Client: client},
		Enricher:    tmdb.NewClient(cfg.TMDBAPIKey, tmdbOpts),
		Captioner:   &caption.Generator{Client: client},
		Combined:    combined,
	}
}
