package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventFallback  EventType = "fallback"
	EventRunEnd    EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent signals entry into or exit from a node during traversal.
type NodeEvent struct {
	EventBase
	NodeName string `json:"node_name"`
}

// FallbackEvent signals a fallback invocation on the current node.
type FallbackEvent struct {
	EventBase
	NodeName string `json:"node_name"`
	// Attempt is the 1-based number of this fallback invocation.
	Attempt int `json:"attempt"`
	// Limit is the resolved retry ceiling, or 0 when retries are unbounded.
	Limit int `json:"limit,omitempty"`
}

// RunEvent signals the end of a traversal.
type RunEvent struct {
	EventBase
	Status   RunStatus     `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines optional callbacks for engine observability.
// Nil hooks are skipped; hooks must not mutate the graph.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnFallback  func(context.Context, *FallbackEvent)
	OnRunEnd    func(context.Context, *RunEvent)
}

// MergeLifecycleHooks combines multiple hook sets into one that fans out each
// event to every non-nil callback, in argument order.
func MergeLifecycleHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnNodeEnter != nil {
			merged.OnNodeEnter = chainNodeHook(merged.OnNodeEnter, h.OnNodeEnter)
		}
		if h.OnNodeLeave != nil {
			merged.OnNodeLeave = chainNodeHook(merged.OnNodeLeave, h.OnNodeLeave)
		}
		if h.OnFallback != nil {
			merged.OnFallback = chainFallbackHook(merged.OnFallback, h.OnFallback)
		}
		if h.OnRunEnd != nil {
			merged.OnRunEnd = chainRunHook(merged.OnRunEnd, h.OnRunEnd)
		}
	}
	return merged
}

func chainNodeHook(a, b func(context.Context, *NodeEvent)) func(context.Context, *NodeEvent) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, e *NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainFallbackHook(a, b func(context.Context, *FallbackEvent)) func(context.Context, *FallbackEvent) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, e *FallbackEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainRunHook(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
