// Package main provides the entry point for the restaurant collection agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant_agent",
	Short: "Restaurant listing collection agent",
	Long:  "Collects restaurant listings from the business search API, normalizes them, and stores them in PostgreSQL. Runs as a one-shot pass, a daily scheduler, or a REST API server.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
