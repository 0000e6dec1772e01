/*-------------------------------------------------------------------------
 *
 * root.go
 *    Root command and global flags for neuronflow-cli
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/cmd/root.go
 *
 *-------------------------------------------------------------------------
 */

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL       string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "neuronflow-cli",
	Short: "NeuronFlow CLI - Flow registration, runs, and reports",
	Long: `NeuronFlow CLI provides commands for registering user flows, running
them, and inspecting results and reports.

Examples:
  # Register a flow from a JSON step file
  neuronflow-cli flows create --name "Login" --type login --url https://example.com/wp-login.php --steps steps.json

  # List registered flows
  neuronflow-cli flows list

  # Run one flow
  neuronflow-cli run <flow-id>

  # Run every active flow with a 4 minute budget
  neuronflow-cli run --all --budget 240

  # Show recent results
  neuronflow-cli results list

  # Export results as CSV
  neuronflow-cli results export --format csv > results.csv
`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", getEnvOrDefault("NEURONFLOW_URL", "http://localhost:8090"), "NeuronFlow API URL")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(flowsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resultsCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
