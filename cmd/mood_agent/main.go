// Package main provides the entry point for the MoodCine agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mood_agent",
	Short: "MoodCine mood-based movie recommender",
	Long:  "MoodCine turns a free-text description of how you feel into a structured mood profile and a set of matching movie recommendations enriched with catalog metadata.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
