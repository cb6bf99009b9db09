package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/pkg/adapters/memory"
	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/runner"
)

func linearGraph(t *testing.T) *webgraph.Graph {
	t.Helper()
	g := webgraph.New(nil, webgraph.WithName("flow"))
	noop := domain.BareAction(func(ctx context.Context) error { return nil })
	_, err := g.AddStep("a", noop)
	require.NoError(t, err)
	_, err = g.AddStep("b", noop)
	require.NoError(t, err)
	return g
}

func TestRunAssignsIDAndPersists(t *testing.T) {
	store := memory.NewStore()
	r := runner.New(runner.WithStore(store))

	report, err := r.Run(context.Background(), linearGraph(t))
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{"a", "b"}, report.Path)

	persisted, err := store.Load(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, persisted.RunID)
	assert.Equal(t, domain.StatusDone, persisted.Status)
}

func TestRunWithoutStore(t *testing.T) {
	r := runner.New()

	report, err := r.Run(context.Background(), linearGraph(t))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, report.Status)
}

func TestRunPropagatesGraphError(t *testing.T) {
	store := memory.NewStore()
	r := runner.New(runner.WithStore(store))

	g := webgraph.New(nil)
	_, err := g.AddStep("boom", domain.BareAction(func(ctx context.Context) error {
		return assert.AnError
	}))
	require.NoError(t, err)

	report, err := r.Run(context.Background(), g)
	assert.ErrorIs(t, err, assert.AnError)
	require.NotNil(t, report)
	assert.Equal(t, domain.StatusFailed, report.Status)

	// The failed report is persisted anyway.
	persisted, err := store.Load(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, persisted.Status)
}

func TestStartRunsInBackground(t *testing.T) {
	store := memory.NewStore()
	r := runner.New(runner.WithStore(store))

	release := make(chan struct{})
	g := webgraph.New(nil, webgraph.WithName("bg"))
	_, err := g.AddStep("wait", domain.BareAction(func(ctx context.Context) error {
		<-release
		return nil
	}))
	require.NoError(t, err)

	runID, err := r.Start(context.Background(), g)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	// The stub report is visible while the run is still in flight.
	stub, err := store.Load(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, stub.Status)
	assert.Equal(t, "bg", stub.GraphName)

	close(release)

	require.Eventually(t, func() bool {
		report, err := store.Load(context.Background(), runID)
		return err == nil && report.Status == domain.StatusDone
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartDetachesFromCallerContext(t *testing.T) {
	store := memory.NewStore()
	r := runner.New(runner.WithStore(store))

	started := make(chan struct{})
	release := make(chan struct{})
	g := webgraph.New(nil)
	_, err := g.AddStep("wait", domain.BareAction(func(ctx context.Context) error {
		close(started)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runID, err := r.Start(ctx, g)
	require.NoError(t, err)

	<-started
	// Cancelling the launch context must not abort the run.
	cancel()
	close(release)

	require.Eventually(t, func() bool {
		report, err := store.Load(context.Background(), runID)
		return err == nil && report.Status == domain.StatusDone
	}, 2*time.Second, 10*time.Millisecond)
}
