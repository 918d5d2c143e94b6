// Package main provides the entry point for the Resume Studio HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_studio",
	Short: "Resume Studio HTTP API Server",
	Long:  "Resume Studio ingests uploaded resumes, scores them for ATS compatibility and normalizes them into editable structured data via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
