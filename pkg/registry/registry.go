// Package registry maps names to action and condition factories, so
// declarative workflow definitions can reference callbacks by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// ActionFactory builds an action from the arguments of a workflow
// definition.
type ActionFactory func(args map[string]any) (domain.Action, error)

// ConditionFactory builds a condition from the arguments of a workflow
// definition.
type ConditionFactory func(args map[string]any) (domain.Condition, error)

// Registry manages the available factories.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]ActionFactory
	conditions map[string]ConditionFactory
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		actions:    make(map[string]ActionFactory),
		conditions: make(map[string]ConditionFactory),
	}
}

// RegisterAction adds an action factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) RegisterAction(name string, f ActionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = f
}

// RegisterCondition adds a condition factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) RegisterCondition(name string, f ConditionFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = f
}

// Action looks up an action factory by name and builds the action.
func (r *Registry) Action(name string, args map[string]any) (domain.Action, error) {
	r.mu.RLock()
	f, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("action factory not found: %s", name)
	}
	return f(args)
}

// Condition looks up a condition factory by name and builds the condition.
func (r *Registry) Condition(name string, args map[string]any) (domain.Condition, error) {
	r.mu.RLock()
	f, ok := r.conditions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("condition factory not found: %s", name)
	}
	return f(args)
}

// ActionNames returns the registered action factory names, sorted.
func (r *Registry) ActionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConditionNames returns the registered condition factory names, sorted.
func (r *Registry) ConditionNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.conditions))
	for name := range r.conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
