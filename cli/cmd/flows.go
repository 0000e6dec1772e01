/*-------------------------------------------------------------------------
 *
 * flows.go
 *    Flow management commands
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/cmd/flows.go
 *
 *-------------------------------------------------------------------------
 */

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurondb/NeuronFlow/cli/pkg/client"
)

var (
	flowName     string
	flowType     string
	flowStartURL string
	flowSteps    string
	flowPriority int
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Manage flow definitions",
}

var flowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered flows",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)
		flows, err := c.ListFlows()
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			return printJSON(flows)
		}

		if len(flows) == 0 {
			fmt.Println("No flows registered.")
			return nil
		}
		for _, f := range flows {
			fmt.Printf("%s  %-24s  %-14s  priority=%d  %s\n",
				f.ID, f.Name, f.FlowType, f.Priority, f.StartURL)
		}
		return nil
	},
}

var flowsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a flow definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flowName == "" || flowType == "" || flowStartURL == "" {
			return fmt.Errorf("--name, --type, and --url are required")
		}

		var steps json.RawMessage
		if flowSteps != "" {
			data, err := os.ReadFile(flowSteps)
			if err != nil {
				return fmt.Errorf("failed to read steps file: %w", err)
			}
			steps = data
		}

		c := client.NewClient(apiURL)
		id, err := c.CreateFlow(flowName, flowType, flowStartURL, steps, flowPriority)
		if err != nil {
			return err
		}

		fmt.Printf("Flow saved: %s\n", id)
		return nil
	},
}

var flowsDeleteCmd = &cobra.Command{
	Use:   "delete <flow-id>",
	Short: "Delete a flow and its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(apiURL)
		if err := c.DeleteFlow(args[0]); err != nil {
			return err
		}
		fmt.Println("Flow deleted.")
		return nil
	},
}

func init() {
	flowsCreateCmd.Flags().StringVar(&flowName, "name", "", "Flow name")
	flowsCreateCmd.Flags().StringVar(&flowType, "type", "", "Flow type (login, registration, woocommerce_checkout, ...)")
	flowsCreateCmd.Flags().StringVar(&flowStartURL, "url", "", "Start URL")
	flowsCreateCmd.Flags().StringVar(&flowSteps, "steps", "", "Path to JSON step file")
	flowsCreateCmd.Flags().IntVar(&flowPriority, "priority", 0, "Run priority (higher runs first)")

	flowsCmd.AddCommand(flowsListCmd)
	flowsCmd.AddCommand(flowsCreateCmd)
	flowsCmd.AddCommand(flowsDeleteCmd)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
