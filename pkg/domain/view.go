package domain

// NodeView is a read-only projection of a node used for introspection,
// visualization and the HTTP surface. It carries structure, never callbacks.
type NodeView struct {
	Name     string   `json:"name"`
	Children []string `json:"children"`

	// Root marks the synthetic START sentinel.
	Root bool `json:"root,omitempty"`

	// Conditional is true when the node has at least one condition.
	Conditional bool `json:"conditional,omitempty"`

	Actions         int `json:"actions"`
	FallbackActions int `json:"fallback_actions,omitempty"`

	// MaxFallbackRetries is the node-level ceiling, 0 when the node follows
	// the graph default.
	MaxFallbackRetries int `json:"max_fallback_retries,omitempty"`
}
