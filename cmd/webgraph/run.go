package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/internal/presentation/tui"
	"github.com/NikBellini/web-graph/pkg/adapters/file"
	"github.com/NikBellini/web-graph/pkg/adapters/redis"
	"github.com/NikBellini/web-graph/pkg/adapters/webdriver"
	"github.com/NikBellini/web-graph/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workflow against a live browser",
	Long:  `Loads the workflow definition, opens a WebDriver session and traverses the graph until no node matches or a retry ceiling is hit.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWorkflow(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("remote", "http://localhost:4444", "WebDriver server URL")
	runCmd.Flags().String("browser", "chrome", "Browser name requested in the session capabilities")
	runCmd.Flags().String("redis", "", "Redis address for run report persistence (empty keeps runs in memory)")
	runCmd.Flags().Duration("timeout", 10*time.Minute, "Overall run deadline")
}

func runWorkflow(cmd *cobra.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	def, reg, err := loadWorkflow(cmd)
	if err != nil {
		return err
	}

	tui.PrintBanner()
	if def.Description != "" {
		render := tui.NewRenderer()
		if out, err := render(def.Description); err == nil {
			fmt.Print(out)
		}
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	remote, _ := cmd.Flags().GetString("remote")
	browser, _ := cmd.Flags().GetString("browser")
	client := webdriver.NewClient(remote, webdriver.WithLogger(logger))
	session, err := client.NewSession(ctx, map[string]any{"browserName": browser})
	if err != nil {
		return fmt.Errorf("failed to open webdriver session: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer closeCancel()
		if err := session.Close(closeCtx); err != nil {
			logger.Warn("failed to close webdriver session", "err", err)
		}
	}()

	g, err := file.BuildGraph(def, reg, session, webgraph.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []runner.Option{runner.WithLogger(logger)}
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		store := redis.New(addr, "", 0)
		defer store.Close()
		opts = append(opts, runner.WithStore(store))
	}

	report, runErr := runner.New(opts...).Run(ctx, g)

	fmt.Println()
	fmt.Printf("Run %s finished with status %q\n", report.RunID, report.Status)
	if len(report.Path) > 0 {
		fmt.Printf("Path: %s\n", strings.Join(report.Path, " -> "))
	}
	return runErr
}
