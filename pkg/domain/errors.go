package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateNode is returned when a node name is already registered in the graph.
var ErrDuplicateNode = errors.New("node already exists in the graph")

// ErrNodeNotFound is returned when a named node cannot be found in the graph registry.
var ErrNodeNotFound = errors.New("node not found in the graph")

// ErrReservedName is returned when a user node reuses the synthetic root's name.
var ErrReservedName = errors.New("node name is reserved")

// ErrGraphSealed is returned when a builder operation or a second run is
// attempted on a graph that has already been run.
var ErrGraphSealed = errors.New("graph has already been run")

// ErrRunNotFound is returned by run stores when a run ID cannot be found.
var ErrRunNotFound = errors.New("run not found")

// RetryLimitError is the terminal failure raised by the traversal engine when
// a node's resolved retry ceiling is reached without any eligible child.
type RetryLimitError struct {
	// NodeName identifies the node whose retry ceiling was exhausted.
	NodeName string
	// Limit is the retry ceiling that was in effect (node override or
	// graph default).
	Limit int
}

func (e *RetryLimitError) Error() string {
	return fmt.Sprintf("max fallback retries reached in node %q: limit %d", e.NodeName, e.Limit)
}
