// Package main provides the entry point for the rulebook ingestion agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rulebook_agent",
	Short: "Regulatory circular ingestion agent",
	Long:  "Rulebook agent watches a central bank's circulars catalog, OCRs each new circular, decomposes it into actionable compliance rules with an LLM, and publishes the result to the rulebook inventory API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
