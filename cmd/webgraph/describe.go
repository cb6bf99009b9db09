package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NikBellini/web-graph/internal/presentation/tui"
	"github.com/NikBellini/web-graph/pkg/adapters/file"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the workflow in human-readable form",
	Long:  `Renders the workflow description and a per-node summary of actions, conditions and fallback behavior.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDescribe(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command) error {
	def, reg, err := loadWorkflow(cmd)
	if err != nil {
		return err
	}

	g, err := file.BuildGraph(def, reg, nil)
	if err != nil {
		return err
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", def.Description)
	}

	md.WriteString("## Nodes\n\n")
	for _, view := range g.Inspect() {
		if view.Root {
			continue
		}
		fmt.Fprintf(&md, "### %s\n\n", view.Name)
		fmt.Fprintf(&md, "- actions: %d\n", view.Actions)
		if view.Conditional {
			md.WriteString("- conditional: yes\n")
		}
		if view.FallbackActions > 0 {
			fmt.Fprintf(&md, "- fallback actions: %d\n", view.FallbackActions)
			if view.MaxFallbackRetries > 0 {
				fmt.Fprintf(&md, "- max fallback retries: %d\n", view.MaxFallbackRetries)
			}
		}
		if len(view.Children) > 0 {
			fmt.Fprintf(&md, "- children: %s\n", strings.Join(view.Children, ", "))
		}
		md.WriteString("\n")
	}

	render := tui.NewRenderer()
	out, err := render(md.String())
	if err != nil {
		// Fall back to raw markdown on rendering errors.
		fmt.Print(md.String())
		return nil
	}
	fmt.Print(out)
	return nil
}
