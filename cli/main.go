/*-------------------------------------------------------------------------
 *
 * main.go
 *    Main entry point for neuronflow-cli
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/cli/main.go
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"github.com/neurondb/NeuronFlow/cli/cmd"
)

func main() {
	cmd.Execute()
}
