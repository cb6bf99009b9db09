package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	webgraph "github.com/NikBellini/web-graph"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of webgraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webgraph version %s\n", strings.TrimSpace(webgraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
