// Package main provides the entry point for the resume-studio CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_studio",
	Short: "Resume Studio generation orchestrator",
	Long:  "Resume Studio assembles structured resume data and produces AI-generated artifacts (job-fit analysis, tailored resume, cover letter, improvement suggestions) from a configurable model backend.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
