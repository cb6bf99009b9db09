package domain

import "context"

// RunContext carries the two values available to every callback: the opaque
// automation driver and the shared mutable state of the run.
//
// The engine never inspects Driver; interpretation belongs to the callback
// (typically via the element package, which expects a ports.BrowserDriver).
// Callbacks that need only one of the two fields simply ignore the other.
type RunContext struct {
	Driver any
	State  *State
}

// Action is a unit of work executed when a node is selected, or as a node's
// fallback. Actions block until done; asynchronous work is modeled by the
// action itself spawning goroutines and waiting on them before returning.
// A returned error aborts the whole traversal unchanged.
type Action func(ctx context.Context, rc *RunContext) error

// Condition gates the execution of a node. A node is eligible only if all of
// its conditions return true, evaluated in order with short-circuiting.
type Condition func(ctx context.Context, rc *RunContext) (bool, error)

// The adapters below lift narrower callback shapes into the canonical Action
// and Condition types, so user code only declares the inputs it actually
// needs.

// DriverAction adapts a callback that only needs the driver.
func DriverAction(fn func(ctx context.Context, driver any) error) Action {
	return func(ctx context.Context, rc *RunContext) error {
		return fn(ctx, rc.Driver)
	}
}

// StateAction adapts a callback that only needs the shared state.
func StateAction(fn func(ctx context.Context, state *State) error) Action {
	return func(ctx context.Context, rc *RunContext) error {
		return fn(ctx, rc.State)
	}
}

// BareAction adapts a callback that needs neither driver nor state.
func BareAction(fn func(ctx context.Context) error) Action {
	return func(ctx context.Context, rc *RunContext) error {
		return fn(ctx)
	}
}

// DriverCondition adapts a condition that only needs the driver.
func DriverCondition(fn func(ctx context.Context, driver any) (bool, error)) Condition {
	return func(ctx context.Context, rc *RunContext) (bool, error) {
		return fn(ctx, rc.Driver)
	}
}

// StateCondition adapts a condition that only needs the shared state.
func StateCondition(fn func(ctx context.Context, state *State) (bool, error)) Condition {
	return func(ctx context.Context, rc *RunContext) (bool, error) {
		return fn(ctx, rc.State)
	}
}

// BareCondition adapts a condition that needs neither driver nor state.
func BareCondition(fn func(ctx context.Context) (bool, error)) Condition {
	return func(ctx context.Context, rc *RunContext) (bool, error) {
		return fn(ctx)
	}
}
