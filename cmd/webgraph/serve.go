package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/pkg/adapters/file"
	httpAdapter "github.com/NikBellini/web-graph/pkg/adapters/http"
	"github.com/NikBellini/web-graph/pkg/adapters/memory"
	"github.com/NikBellini/web-graph/pkg/adapters/redis"
	"github.com/NikBellini/web-graph/pkg/adapters/webdriver"
	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/observability"
	"github.com/NikBellini/web-graph/pkg/ports"
	"github.com/NikBellini/web-graph/pkg/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow HTTP server",
	Long:  `Exposes the workflow graph and its runs over a JSON API, with Prometheus metrics on /metrics. Each POST /runs opens a fresh WebDriver session and traverses the graph in the background.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("remote", "http://localhost:4444", "WebDriver server URL")
	serveCmd.Flags().String("browser", "chrome", "Browser name requested in the session capabilities")
	serveCmd.Flags().String("redis", "", "Redis address for run report persistence (empty keeps runs in memory)")
}

func serve(cmd *cobra.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	def, reg, err := loadWorkflow(cmd)
	if err != nil {
		return err
	}

	var store ports.RunStore
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		redisStore := redis.New(addr, "", 0)
		defer redisStore.Close()
		store = redisStore
	} else {
		store = memory.NewStore()
	}

	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)

	remote, _ := cmd.Flags().GetString("remote")
	browser, _ := cmd.Flags().GetString("browser")
	client := webdriver.NewClient(remote, webdriver.WithLogger(logger))

	factory := func() (*webgraph.Graph, error) {
		session, err := client.NewSession(context.Background(), map[string]any{"browserName": browser})
		if err != nil {
			return nil, fmt.Errorf("failed to open webdriver session: %w", err)
		}
		// Each graph owns its session; release it when the run ends.
		closeSession := domain.LifecycleHooks{
			OnRunEnd: func(ctx context.Context, _ *domain.RunEvent) {
				if err := session.Close(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("failed to close webdriver session", "err", err)
				}
			},
		}
		return file.BuildGraph(def, reg, session,
			webgraph.WithLogger(logger),
			webgraph.WithLifecycleHooks(domain.MergeLifecycleHooks(metrics.Hooks(), closeSession)),
		)
	}

	// Graph inspection never runs, so no session is opened for it.
	inspectFactory := func() (*webgraph.Graph, error) {
		return file.BuildGraph(def, reg, nil, webgraph.WithLogger(logger))
	}

	r := runner.New(runner.WithStore(store), runner.WithLogger(logger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.Handle("/", httpAdapter.NewHandler(factory, r, store,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithInspectFactory(inspectFactory),
	))

	port, _ := cmd.Flags().GetString("port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Printf("Starting web-graph server on %s\n", srv.Addr)
		fmt.Printf("Serving workflow: %s\n", def.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Println("web-graph server stopped gracefully")
	}
	return nil
}
