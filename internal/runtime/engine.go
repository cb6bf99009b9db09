// Package runtime implements the graph traversal state machine.
//
// The engine walks a built graph exactly once: at each frontier it selects
// the first node (in insertion order) whose conditions all pass, runs its
// actions and advances to its children; when no node matches it runs the
// current node's fallback, bounded by the resolved retry ceiling. Traversal
// is strictly single-threaded and deterministic.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// Engine executes one traversal over a graph of domain nodes.
type Engine struct {
	logger             *slog.Logger
	hooks              domain.LifecycleHooks
	maxFallbackRetries int
	now                func() time.Time
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for traversal debug output.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxFallbackRetries sets the graph-level default retry ceiling.
// Values below 1 leave retries unbounded for nodes without their own ceiling.
func WithMaxFallbackRetries(n int) EngineOption {
	return func(e *Engine) {
		e.maxFallbackRetries = n
	}
}

// NewEngine creates an engine. Without options it logs nowhere, emits no
// events and applies no default retry ceiling.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run walks the graph from the synthetic root until termination.
//
// The returned report is always non-nil and describes the traversal even on
// failure. Errors from user callbacks propagate unchanged; a retry ceiling
// reached without a frontier match yields a *domain.RetryLimitError naming
// the current node and the ceiling.
func (e *Engine) Run(ctx context.Context, root *domain.Node, driver any, state *domain.State) (*domain.RunReport, error) {
	rc := &domain.RunContext{Driver: driver, State: state}
	report := &domain.RunReport{
		Status:           domain.StatusRunning,
		Path:             []string{},
		FallbackAttempts: make(map[string]int),
		StartedAt:        e.now(),
	}

	current := root
	frontier := root.Children()
	retries := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return e.finish(ctx, report, rc, err)
		}

		matched, err := e.selectNode(ctx, frontier, rc)
		if err != nil {
			return e.finish(ctx, report, rc, err)
		}

		if matched == nil {
			// No eligible child: fail before exceeding the ceiling so the
			// reported limit matches the fallbacks actually observed.
			limit, bounded := current.ResolveRetryLimit(e.maxFallbackRetries)
			if bounded && retries >= limit {
				return e.finish(ctx, report, rc, &domain.RetryLimitError{
					NodeName: current.Name(),
					Limit:    limit,
				})
			}

			attempt := retries + 1
			e.logger.Debug("running fallback", "node", current.Name(), "attempt", attempt)
			e.emitFallback(ctx, current.Name(), attempt, limit)
			if err := current.RunFallback(ctx, rc); err != nil {
				return e.finish(ctx, report, rc, err)
			}
			retries++
			report.FallbackAttempts[current.Name()]++
			continue
		}

		e.logger.Debug("running node", "node", matched.Name())
		e.emitNodeEnter(ctx, matched.Name())
		if err := matched.RunActions(ctx, rc); err != nil {
			return e.finish(ctx, report, rc, err)
		}
		e.emitNodeLeave(ctx, matched.Name())

		report.Path = append(report.Path, matched.Name())
		current = matched
		frontier = matched.Children()
		retries = 0
	}

	return e.finish(ctx, report, rc, nil)
}

// selectNode scans the frontier in insertion order and returns the first
// node whose conditions all pass, or nil when none matches.
func (e *Engine) selectNode(ctx context.Context, frontier []*domain.Node, rc *domain.RunContext) (*domain.Node, error) {
	for _, candidate := range frontier {
		ok, err := candidate.EvalConditions(ctx, rc)
		if err != nil {
			return nil, err
		}
		if ok {
			return candidate, nil
		}
	}
	return nil, nil
}

func (e *Engine) finish(ctx context.Context, report *domain.RunReport, rc *domain.RunContext, err error) (*domain.RunReport, error) {
	report.FinishedAt = e.now()
	if rc.State != nil {
		report.FinalState = rc.State.Snapshot()
	}
	if err != nil {
		report.Status = domain.StatusFailed
		report.Error = err.Error()
		e.logger.Debug("run failed", "err", err)
	} else {
		report.Status = domain.StatusDone
		e.logger.Debug("run done", "path", report.Path)
	}
	e.emitRunEnd(ctx, report, err)
	return report, err
}

func (e *Engine) emitNodeEnter(ctx context.Context, name string) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeEnter},
		NodeName:  name,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, name string) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeLeave},
		NodeName:  name,
	})
}

func (e *Engine) emitFallback(ctx context.Context, name string, attempt, limit int) {
	if e.hooks.OnFallback == nil {
		return
	}
	e.hooks.OnFallback(ctx, &domain.FallbackEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventFallback},
		NodeName:  name,
		Attempt:   attempt,
		Limit:     limit,
	})
}

func (e *Engine) emitRunEnd(ctx context.Context, report *domain.RunReport, err error) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: report.FinishedAt, Type: domain.EventRunEnd},
		Status:    report.Status,
		Duration:  report.FinishedAt.Sub(report.StartedAt),
		Err:       err,
	})
}
