package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikBellini/web-graph/pkg/adapters/file"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow definition for consistency",
	Long:  `Parses the workflow file and builds the graph, reporting unknown callbacks, bad arguments, duplicate node names or missing parents.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	def, reg, err := loadWorkflow(cmd)
	if err != nil {
		return err
	}

	// Building exercises the full validation path: callback lookup,
	// argument decoding and graph attachment rules.
	if _, err := file.BuildGraph(def, reg, nil); err != nil {
		return err
	}
	return nil
}
