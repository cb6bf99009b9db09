package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikBellini/web-graph/internal/presentation/graph"
	"github.com/NikBellini/web-graph/pkg/adapters/file"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Builds the workflow graph from its definition and outputs a Mermaid diagram (graph TD) representing the traversal structure.`,
	Run: func(cmd *cobra.Command, args []string) {
		def, reg, err := loadWorkflow(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// No driver needed: the graph is built but never run.
		g, err := file.BuildGraph(def, reg, nil)
		if err != nil {
			fmt.Printf("Error building graph: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(g.Inspect(), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
