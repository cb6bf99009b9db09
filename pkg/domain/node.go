package domain

import (
	"context"
	"fmt"
)

// Node represents a single named unit of work in an automation graph.
//
// A node holds ordered actions executed when the node is selected, ordered
// conditions that gate its eligibility, ordered fallback actions executed
// when none of its children are eligible, and an optional retry ceiling for
// those fallbacks. Edges to child nodes are append-only and are populated by
// the graph builder.
type Node struct {
	name            string
	actions         []Action
	conditions      []Condition
	fallbackActions []Action

	// maxFallbackRetries is the node-level retry ceiling. retriesSet
	// distinguishes "not configured" (follow the graph default) from an
	// explicit value.
	maxFallbackRetries int
	retriesSet         bool

	children []*Node
}

// NodeOption configures a Node during construction.
type NodeOption func(*Node)

// WithActions appends actions, executed sequentially when the node runs.
func WithActions(actions ...Action) NodeOption {
	return func(n *Node) {
		n.actions = append(n.actions, actions...)
	}
}

// WithConditions appends eligibility conditions, evaluated in order with
// short-circuiting. A node with no conditions is always eligible.
func WithConditions(conditions ...Condition) NodeOption {
	return func(n *Node) {
		n.conditions = append(n.conditions, conditions...)
	}
}

// WithFallbackActions appends fallback actions, executed sequentially when
// none of the node's children are eligible.
func WithFallbackActions(actions ...Action) NodeOption {
	return func(n *Node) {
		n.fallbackActions = append(n.fallbackActions, actions...)
	}
}

// WithMaxFallbackRetries sets the node-level retry ceiling. It must be a
// positive integer; it takes precedence over the graph-level default.
func WithMaxFallbackRetries(n int) NodeOption {
	return func(node *Node) {
		node.maxFallbackRetries = n
		node.retriesSet = true
	}
}

// NewNode creates a node with the given unique name.
func NewNode(name string, opts ...NodeOption) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("node name must be a non-empty string")
	}

	n := &Node{name: name}
	for _, opt := range opts {
		opt(n)
	}

	if n.retriesSet && n.maxFallbackRetries < 1 {
		return nil, fmt.Errorf("node %q: max fallback retries must be positive, got %d", name, n.maxFallbackRetries)
	}
	for i, a := range n.actions {
		if a == nil {
			return nil, fmt.Errorf("node %q: action %d is nil", name, i)
		}
	}
	for i, c := range n.conditions {
		if c == nil {
			return nil, fmt.Errorf("node %q: condition %d is nil", name, i)
		}
	}
	for i, a := range n.fallbackActions {
		if a == nil {
			return nil, fmt.Errorf("node %q: fallback action %d is nil", name, i)
		}
	}

	return n, nil
}

// Name returns the node's unique identifier within its graph.
func (n *Node) Name() string {
	return n.name
}

// Children returns the node's outgoing edges in insertion order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends an outgoing edge. The graph builder is the intended
// caller; edges are append-only and are never removed.
func (n *Node) AddChild(child *Node) {
	n.children = append(n.children, child)
}

// ActionCount returns the number of actions configured on the node.
func (n *Node) ActionCount() int {
	return len(n.actions)
}

// ConditionCount returns the number of conditions configured on the node.
func (n *Node) ConditionCount() int {
	return len(n.conditions)
}

// FallbackActionCount returns the number of fallback actions configured on
// the node.
func (n *Node) FallbackActionCount() int {
	return len(n.fallbackActions)
}

// MaxFallbackRetries returns the node-level retry ceiling and whether one was
// explicitly configured.
func (n *Node) MaxFallbackRetries() (int, bool) {
	return n.maxFallbackRetries, n.retriesSet
}

// ResolveRetryLimit resolves the effective retry ceiling for this node.
// The node-level ceiling takes precedence over graphDefault; a graphDefault
// below 1 means the graph configured no default. The second return value is
// false when retries are unbounded.
func (n *Node) ResolveRetryLimit(graphDefault int) (int, bool) {
	if n.retriesSet {
		return n.maxFallbackRetries, true
	}
	if graphDefault > 0 {
		return graphDefault, true
	}
	return 0, false
}

// RunActions executes each of the node's actions in order. The first error
// aborts the sequence and is returned unchanged.
func (n *Node) RunActions(ctx context.Context, rc *RunContext) error {
	for _, action := range n.actions {
		if err := action(ctx, rc); err != nil {
			return err
		}
	}
	return nil
}

// EvalConditions evaluates the node's conditions in order, short-circuiting
// on the first false result. A node with no conditions is eligible.
func (n *Node) EvalConditions(ctx context.Context, rc *RunContext) (bool, error) {
	for _, condition := range n.conditions {
		ok, err := condition(ctx, rc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// RunFallback executes each of the node's fallback actions in order, with
// the same error policy as RunActions. A node without fallback actions is a
// no-op.
func (n *Node) RunFallback(ctx context.Context, rc *RunContext) error {
	for _, action := range n.fallbackActions {
		if err := action(ctx, rc); err != nil {
			return err
		}
	}
	return nil
}
