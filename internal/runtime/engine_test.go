package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikBellini/web-graph/internal/runtime"
	"github.com/NikBellini/web-graph/pkg/domain"
)

func mustNode(t *testing.T, name string, opts ...domain.NodeOption) *domain.Node {
	t.Helper()
	n, err := domain.NewNode(name, opts...)
	require.NoError(t, err)
	return n
}

// countAction increments the counter each time the node runs.
func countAction(counter *int) domain.NodeOption {
	return domain.WithActions(domain.BareAction(func(ctx context.Context) error {
		*counter++
		return nil
	}))
}

func newRoot(t *testing.T, children ...*domain.Node) *domain.Node {
	t.Helper()
	root := mustNode(t, "START")
	for _, c := range children {
		root.AddChild(c)
	}
	return root
}

func TestRunLinearChain(t *testing.T) {
	var n1, n2, n3 int
	first := mustNode(t, "first", countAction(&n1))
	second := mustNode(t, "second", countAction(&n2))
	third := mustNode(t, "third", countAction(&n3))
	first.AddChild(second)
	second.AddChild(third)
	root := newRoot(t, first)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, report.Status)
	assert.Equal(t, []string{"first", "second", "third"}, report.Path)
	assert.Equal(t, 1, n1)
	assert.Equal(t, 1, n2)
	assert.Equal(t, 1, n3)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestRunEmptyGraph(t *testing.T) {
	root := newRoot(t)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, report.Status)
	assert.Empty(t, report.Path)
}

func TestRunFirstMatchInsertionOrder(t *testing.T) {
	var blockedRuns, openRuns int
	blocked := mustNode(t, "blocked",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		countAction(&blockedRuns),
	)
	open := mustNode(t, "open", countAction(&openRuns))
	root := newRoot(t, blocked, open)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, report.Path)
	assert.Zero(t, blockedRuns)
	assert.Equal(t, 1, openRuns)
}

func TestRunFallbackUnblocksChild(t *testing.T) {
	// The child only matches after two fallback rounds; no ceiling is set,
	// so retries continue until the condition flips.
	var attempts int
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			attempts++
			return nil
		})),
	)
	var childRuns int
	child := mustNode(t, "child",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return attempts >= 2, nil
		})),
		countAction(&childRuns),
	)
	gate.AddChild(child)
	root := newRoot(t, gate)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, []string{"gate", "child"}, report.Path)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, childRuns)
	assert.Equal(t, map[string]int{"gate": 2}, report.FallbackAttempts)
}

func TestRunRetryCeilingReached(t *testing.T) {
	var fallbacks int
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			fallbacks++
			return nil
		})),
		domain.WithMaxFallbackRetries(3),
	)
	never := mustNode(t, "never",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate.AddChild(never)
	root := newRoot(t, gate)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.Error(t, err)
	var limitErr *domain.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "gate", limitErr.NodeName)
	assert.Equal(t, 3, limitErr.Limit)

	// The ceiling bounds observed fallbacks exactly.
	assert.Equal(t, 3, fallbacks)
	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.Equal(t, []string{"gate"}, report.Path)
	assert.Contains(t, report.Error, `max fallback retries reached in node "gate"`)
}

func TestRunNodeCeilingOverridesGraphDefault(t *testing.T) {
	var fallbacks int
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			fallbacks++
			return nil
		})),
		domain.WithMaxFallbackRetries(3),
	)
	never := mustNode(t, "never",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate.AddChild(never)
	root := newRoot(t, gate)

	engine := runtime.NewEngine(runtime.WithMaxFallbackRetries(5))
	_, err := engine.Run(context.Background(), root, nil, domain.NewState())

	var limitErr *domain.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 3, limitErr.Limit)
	assert.Equal(t, 3, fallbacks)
}

func TestRunGraphDefaultCeiling(t *testing.T) {
	var fallbacks int
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			fallbacks++
			return nil
		})),
	)
	never := mustNode(t, "never",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate.AddChild(never)
	root := newRoot(t, gate)

	engine := runtime.NewEngine(runtime.WithMaxFallbackRetries(2))
	_, err := engine.Run(context.Background(), root, nil, domain.NewState())

	var limitErr *domain.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 2, limitErr.Limit)
	assert.Equal(t, 2, fallbacks)
}

func TestRunRetriesResetAfterMatch(t *testing.T) {
	// The first gate needs one fallback; the second gate then needs two
	// more. A shared ceiling of 2 only holds if the counter resets between
	// matched nodes.
	var attempts1, attempts2 int
	gate1 := mustNode(t, "gate1",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			attempts1++
			return nil
		})),
	)
	mid := mustNode(t, "mid",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return attempts1 >= 1, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			attempts2++
			return nil
		})),
	)
	last := mustNode(t, "last",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return attempts2 >= 2, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate1.AddChild(mid)
	mid.AddChild(last)
	root := newRoot(t, gate1)

	engine := runtime.NewEngine(runtime.WithMaxFallbackRetries(2))
	report, err := engine.Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, []string{"gate1", "mid", "last"}, report.Path)
	assert.Equal(t, map[string]int{"gate1": 1, "mid": 2}, report.FallbackAttempts)
}

func TestRunActionErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("click failed")
	bad := mustNode(t, "bad",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return boom })),
	)
	root := newRoot(t, bad)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	assert.Same(t, boom, err)
	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.Empty(t, report.Path)
}

func TestRunConditionErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("driver gone")
	bad := mustNode(t, "bad",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, boom
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	root := newRoot(t, bad)

	_, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	assert.Same(t, boom, err)
}

func TestRunFallbackErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("refresh failed")
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error { return boom })),
	)
	never := mustNode(t, "never",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate.AddChild(never)
	root := newRoot(t, gate)

	_, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	assert.Same(t, boom, err)
}

func TestRunStatePropagation(t *testing.T) {
	writer := mustNode(t, "writer",
		domain.WithActions(domain.StateAction(func(ctx context.Context, state *domain.State) error {
			state.Set("token", "abc123")
			return nil
		})),
	)
	var seen any
	reader := mustNode(t, "reader",
		domain.WithActions(domain.StateAction(func(ctx context.Context, state *domain.State) error {
			seen = state.Get("token")
			return nil
		})),
	)
	writer.AddChild(reader)
	root := newRoot(t, writer)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, "abc123", seen)
	assert.Equal(t, "abc123", report.FinalState["token"])
}

func TestRunDriverPassedToCallbacks(t *testing.T) {
	type fakeDriver struct{ name string }
	drv := &fakeDriver{name: "chrome"}

	var got any
	probe := mustNode(t, "probe",
		domain.WithActions(domain.DriverAction(func(ctx context.Context, driver any) error {
			got = driver
			return nil
		})),
	)
	root := newRoot(t, probe)

	_, err := runtime.NewEngine().Run(context.Background(), root, drv, domain.NewState())

	require.NoError(t, err)
	assert.Same(t, drv, got)
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := mustNode(t, "first",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error {
			cancel()
			return nil
		})),
	)
	var secondRuns int
	second := mustNode(t, "second", countAction(&secondRuns))
	first.AddChild(second)
	root := newRoot(t, first)

	report, err := runtime.NewEngine().Run(ctx, root, nil, domain.NewState())

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.Equal(t, []string{"first"}, report.Path)
	assert.Zero(t, secondRuns)
}

func TestRunLifecycleHooks(t *testing.T) {
	var entered, left []string
	var fallbackEvents []*domain.FallbackEvent
	var runEnd *domain.RunEvent

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, ev *domain.NodeEvent) {
			entered = append(entered, ev.NodeName)
		},
		OnNodeLeave: func(ctx context.Context, ev *domain.NodeEvent) {
			left = append(left, ev.NodeName)
		},
		OnFallback: func(ctx context.Context, ev *domain.FallbackEvent) {
			fallbackEvents = append(fallbackEvents, ev)
		},
		OnRunEnd: func(ctx context.Context, ev *domain.RunEvent) {
			runEnd = ev
		},
	}

	var attempts int
	gate := mustNode(t, "gate",
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			attempts++
			return nil
		})),
	)
	child := mustNode(t, "child",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return attempts >= 1, nil
		})),
		domain.WithActions(domain.BareAction(func(ctx context.Context) error { return nil })),
	)
	gate.AddChild(child)
	root := newRoot(t, gate)

	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))
	_, err := engine.Run(context.Background(), root, nil, domain.NewState())

	require.NoError(t, err)
	assert.Equal(t, []string{"gate", "child"}, entered)
	assert.Equal(t, []string{"gate", "child"}, left)
	require.Len(t, fallbackEvents, 1)
	assert.Equal(t, "gate", fallbackEvents[0].NodeName)
	assert.Equal(t, 1, fallbackEvents[0].Attempt)
	require.NotNil(t, runEnd)
	assert.Equal(t, domain.StatusDone, runEnd.Status)
	assert.NoError(t, runEnd.Err)
}

// Mirrors a three-node scenario with one gated sibling: the first child
// exhausts its ceiling because its only sibling branch never opens.
func TestRunCeilingBeforeFallbackScenario(t *testing.T) {
	var gateActions, gateFallbacks, siblingActions int
	gate := mustNode(t, "N1",
		countAction(&gateActions),
		domain.WithFallbackActions(domain.BareAction(func(ctx context.Context) error {
			gateFallbacks++
			return nil
		})),
		domain.WithMaxFallbackRetries(3),
	)
	sibling := mustNode(t, "N2",
		domain.WithConditions(domain.BareCondition(func(ctx context.Context) (bool, error) {
			return false, nil
		})),
		countAction(&siblingActions),
	)
	gate.AddChild(sibling)
	root := newRoot(t, gate)

	report, err := runtime.NewEngine().Run(context.Background(), root, nil, domain.NewState())

	var limitErr *domain.RetryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "N1", limitErr.NodeName)
	assert.Equal(t, 3, limitErr.Limit)
	assert.Equal(t, 1, gateActions)
	assert.Equal(t, 3, gateFallbacks)
	assert.Zero(t, siblingActions)
	assert.Equal(t, 3, report.FallbackAttempts["N1"])
}
