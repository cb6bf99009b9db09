// Package file loads declarative workflow definitions from YAML and compiles
// them into runnable graphs, resolving callback names through a registry.
package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	webgraph "github.com/NikBellini/web-graph"
	"github.com/NikBellini/web-graph/pkg/domain"
	"github.com/NikBellini/web-graph/pkg/registry"
)

// Definition is the YAML shape of a workflow.
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// FallbackMaxRetries is the graph-level default retry ceiling;
	// 0 leaves retries unbounded.
	FallbackMaxRetries int `yaml:"fallback_max_retries"`

	Nodes []NodeDefinition `yaml:"nodes"`
}

// NodeDefinition describes one node of the workflow.
type NodeDefinition struct {
	Name string `yaml:"name"`

	// Parent names the node to attach to. Empty means the builder cursor
	// (the previously declared node); "START" attaches an entry point.
	Parent string `yaml:"parent"`

	Actions         []CallbackDefinition `yaml:"actions"`
	Conditions      []CallbackDefinition `yaml:"conditions"`
	FallbackActions []CallbackDefinition `yaml:"fallback_actions"`

	FallbackMaxRetries int `yaml:"fallback_max_retries"`
}

// CallbackDefinition references a registered factory by name with its
// arguments.
type CallbackDefinition struct {
	Use  string         `yaml:"use"`
	With map[string]any `yaml:"with"`
}

// Parse decodes a workflow definition from YAML.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}

	if def.Name == "" {
		return nil, fmt.Errorf("workflow name is required")
	}
	for i, node := range def.Nodes {
		if node.Name == "" {
			return nil, fmt.Errorf("node %d: name is required", i)
		}
		for j, cb := range append(append(append([]CallbackDefinition{}, node.Actions...), node.Conditions...), node.FallbackActions...) {
			if cb.Use == "" {
				return nil, fmt.Errorf("node %q: callback %d: use is required", node.Name, j)
			}
		}
	}

	return &def, nil
}

// Load reads and parses a workflow definition from disk.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return Parse(data)
}

// BuildGraph compiles a definition into a single-use graph, resolving every
// callback through the registry. Construction errors (duplicate names,
// unknown parents, unknown factories) surface unchanged.
func BuildGraph(def *Definition, reg *registry.Registry, driver any, opts ...webgraph.Option) (*webgraph.Graph, error) {
	graphOpts := []webgraph.Option{webgraph.WithName(def.Name)}
	if def.FallbackMaxRetries > 0 {
		graphOpts = append(graphOpts, webgraph.WithMaxFallbackRetries(def.FallbackMaxRetries))
	}
	graphOpts = append(graphOpts, opts...)

	g := webgraph.New(driver, graphOpts...)

	for _, nodeDef := range def.Nodes {
		node, err := buildNode(nodeDef, reg)
		if err != nil {
			return nil, err
		}

		if nodeDef.Parent == "" {
			err = g.AddEdgeNode(node)
		} else {
			err = g.AddEdgeNodeTo(node, nodeDef.Parent)
		}
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

func buildNode(def NodeDefinition, reg *registry.Registry) (*domain.Node, error) {
	var opts []domain.NodeOption

	for _, cb := range def.Actions {
		action, err := reg.Action(cb.Use, cb.With)
		if err != nil {
			return nil, fmt.Errorf("node %q: action %q: %w", def.Name, cb.Use, err)
		}
		opts = append(opts, domain.WithActions(action))
	}
	for _, cb := range def.Conditions {
		condition, err := reg.Condition(cb.Use, cb.With)
		if err != nil {
			return nil, fmt.Errorf("node %q: condition %q: %w", def.Name, cb.Use, err)
		}
		opts = append(opts, domain.WithConditions(condition))
	}
	for _, cb := range def.FallbackActions {
		action, err := reg.Action(cb.Use, cb.With)
		if err != nil {
			return nil, fmt.Errorf("node %q: fallback action %q: %w", def.Name, cb.Use, err)
		}
		opts = append(opts, domain.WithFallbackActions(action))
	}
	if def.FallbackMaxRetries > 0 {
		opts = append(opts, domain.WithMaxFallbackRetries(def.FallbackMaxRetries))
	}

	return domain.NewNode(def.Name, opts...)
}
