/*-------------------------------------------------------------------------
 *
 * results.go
 *    Result inspection commands
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/cmd/results.go
 *
 *-------------------------------------------------------------------------
 */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurondb/NeuronFlow/cli/pkg/client"
)

var (
	resultsLimit int
	resultsFlow  string
	exportFormat string
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect test results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)
		results, err := c.ListResults(resultsFlow, resultsLimit)
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			return printJSON(results)
		}

		if len(results) == 0 {
			fmt.Println("No results yet.")
			return nil
		}
		for _, r := range results {
			errMsg := ""
			if r.ErrorMessage != nil {
				errMsg = "  " + *r.ErrorMessage
			}
			fmt.Printf("%s  %-8s  executed=%d passed=%d failed=%d  %.2fs  %s%s\n",
				r.ID, r.Status, r.StepsExecuted, r.StepsPassed, r.StepsFailed,
				r.ExecutionTime, r.CompletedAt, errMsg)
		}
		return nil
	},
}

var resultsReportCmd = &cobra.Command{
	Use:   "report <result-id>",
	Short: "Print the full report for a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)
		data, err := c.GetReport(args[0])
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export results (json, csv, html) to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)
		data, err := c.Export(exportFormat, resultsLimit)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	resultsCmd.PersistentFlags().IntVar(&resultsLimit, "limit", 50, "Maximum results to fetch")
	resultsListCmd.Flags().StringVar(&resultsFlow, "flow", "", "Only results for this flow id")
	resultsExportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json, csv, html)")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsReportCmd)
	resultsCmd.AddCommand(resultsExportCmd)
}
