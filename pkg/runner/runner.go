// Package runner drives single graph runs end to end: it assigns run IDs,
// executes the traversal and persists run reports through a ports.RunStore.
package runner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/ports"
)

// Runner executes graphs and records their reports.
type Runner struct {
	store  ports.RunStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the runner.
type Option func(*Runner)

// WithStore sets the persistence adapter for run reports.
// If unset, runs are ephemeral.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the graph synchronously and returns its report. The report
// is persisted when a store is configured; persistence failures are logged
// and never mask the run's own outcome.
func (r *Runner) Run(ctx context.Context, g *webgraph.Graph) (*domain.RunReport, error) {
	return r.run(ctx, g, uuid.NewString())
}

// Start executes the graph in the background and returns its run ID
// immediately. A stub report with status "running" is persisted up front so
// the run is observable while in flight; the final report replaces it. The
// run detaches from ctx's cancellation.
func (r *Runner) Start(ctx context.Context, g *webgraph.Graph) (string, error) {
	runID := uuid.NewString()

	if r.store != nil {
		stub := &domain.RunReport{
			RunID:     runID,
			GraphName: g.Name(),
			Status:    domain.StatusRunning,
			StartedAt: r.now(),
		}
		if err := r.store.Save(ctx, runID, stub); err != nil {
			return "", err
		}
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		//nolint:errcheck // the outcome lives in the persisted report
		r.run(bg, g, runID)
	}()

	return runID, nil
}

func (r *Runner) run(ctx context.Context, g *webgraph.Graph, runID string) (*domain.RunReport, error) {
	logger := r.logger.With("run_id", runID, "graph", g.Name())
	logger.Info("run started")

	report, runErr := g.Run(ctx)
	report.RunID = runID

	if r.store != nil {
		if err := r.store.Save(ctx, runID, report); err != nil {
			logger.Error("failed to persist run report", "err", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "err", runErr)
	} else {
		logger.Info("run finished", "status", report.Status, "path", report.Path)
	}
	return report, runErr
}
