/*-------------------------------------------------------------------------
 *
 * run.go
 *    Flow run commands
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/cmd/run.go
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
	runAll    bool
	runBudget int
)

var runCmd = &cobra.Command{
	Use:   "run [flow-id]",
	Short: "Run one flow, or every active flow with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)

		if runAll {
			batch, err := c.RunAll(runBudget)
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				return printJSON(batch)
			}
			for _, summary := range batch.Runs {
				printSummary(&summary)
			}
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("a flow id is required unless --all is set")
		}

		summary, err := c.RunFlow(args[0])
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(summary)
		}
		printSummary(summary)
		return nil
	},
}

func printSummary(s *client.RunSummary) {
	fmt.Printf("%s  flow=%s  %s  executed=%d passed=%d failed=%d  %.2fs\n",
		s.RunID, s.FlowID, s.Status, s.StepsExecuted, s.StepsPassed, s.StepsFailed, s.ExecutionTime)
	if s.Error != "" {
		fmt.Printf("  error: %s\n", s.Error)
	}
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "Run every active flow")
	runCmd.Flags().IntVar(&runBudget, "budget", 0, "Wall-clock budget in seconds (0 = unlimited)")
}
