package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikBellini/web-graph/internal/logging"
	"github.com/NikBellini/web-graph/pkg/adapters/file"
	"github.com/NikBellini/web-graph/pkg/prebuilt"
	"github.com/NikBellini/web-graph/pkg/registry"
)

var rootCmd = &cobra.Command{
	Use:   "webgraph",
	Short: "web-graph is a workflow graph engine for browser automation",
	Long:  `web-graph runs directed workflow graphs of browser actions and conditions, defined in YAML files or in code.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("workflow", "f", "workflow.yaml", "Path to the workflow definition file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// loadWorkflow reads the workflow file named by --workflow and returns its
// definition plus a registry preloaded with the prebuilt callbacks.
func loadWorkflow(cmd *cobra.Command) (*file.Definition, *registry.Registry, error) {
	path, _ := cmd.Flags().GetString("workflow")

	def, err := file.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load workflow %q: %w", path, err)
	}

	reg := registry.New()
	prebuilt.Register(reg)
	return def, reg, nil
}
