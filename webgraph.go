package webgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NikBellini/web-graph/internal/runtime"
	"github.com/NikBellini/web-graph/pkg/domain"
)

// StartNodeName is the reserved name of the synthetic root node. Its
// children are the graph's actual entry points; user nodes cannot use it.
const StartNodeName = "START"

// Graph is a directed workflow graph of automation steps.
//
// A Graph is built once through the builder API and run once; it is not safe
// for concurrent use and has no reset operation. The shared state container
// is handed by reference to every callback during the run.
type Graph struct {
	name   string
	driver any
	state  *domain.State

	maxFallbackRetries int

	root   *domain.Node
	nodes  map[string]*domain.Node
	order  []string
	cursor *domain.Node
	status domain.RunStatus

	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Graph during construction.
type Option func(*Graph)

// WithName sets a descriptive name, reported in run reports and logs.
func WithName(name string) Option {
	return func(g *Graph) {
		g.name = name
	}
}

// WithState replaces the graph's empty initial state container.
func WithState(state *domain.State) Option {
	return func(g *Graph) {
		if state != nil {
			g.state = state
		}
	}
}

// WithMaxFallbackRetries sets the graph-level default retry ceiling, applied
// to any node without its own ceiling. Values below 1 leave retries
// unbounded.
func WithMaxFallbackRetries(n int) Option {
	return func(g *Graph) {
		g.maxFallbackRetries = n
	}
}

// WithLogger sets a structured logger for the traversal.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks, invoked synchronously
// during the run.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Graph) {
		g.hooks = hooks
	}
}

// New creates an empty graph around the given opaque driver handle. The
// driver is passed unmodified to every callback; the graph itself never
// inspects it, so any value (including nil for driverless workflows) is
// accepted.
func New(driver any, opts ...Option) *Graph {
	// The root node has an always-valid name and no callbacks; NewNode
	// cannot fail here.
	root, _ := domain.NewNode(StartNodeName)

	g := &Graph{
		driver: driver,
		state:  domain.NewState(),
		root:   root,
		nodes:  map[string]*domain.Node{StartNodeName: root},
		order:  []string{StartNodeName},
		cursor: root,
		status: domain.StatusBuild,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph's descriptive name, possibly empty.
func (g *Graph) Name() string {
	return g.name
}

// State returns the shared state container. Mutating it after Run has
// started is the callbacks' prerogative, not the caller's.
func (g *Graph) State() *domain.State {
	return g.state
}

// Status reports where the graph is in its build/run lifecycle.
func (g *Graph) Status() domain.RunStatus {
	return g.status
}

// Node returns a registered node by name.
func (g *Graph) Node(name string) (*domain.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of user nodes in the graph, excluding the root.
func (g *Graph) Len() int {
	return len(g.nodes) - 1
}

// AddEdgeNode attaches node as a new child of the builder cursor and
// advances the cursor to it. The cursor starts at the synthetic root, so the
// first call registers an entry point.
func (g *Graph) AddEdgeNode(node *domain.Node) error {
	return g.attach(node, g.cursor)
}

// AddEdgeNodeTo attaches node as a new child of the named parent and
// advances the cursor to the new node.
func (g *Graph) AddEdgeNodeTo(node *domain.Node, parent string) error {
	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("parent %q: %w", parent, domain.ErrNodeNotFound)
	}
	return g.attach(node, p)
}

// AddStep is a convenience that builds a minimal node holding a single
// action, attaches it at the builder cursor and returns the new node so
// chains remain visible in the call graph.
func (g *Graph) AddStep(name string, action domain.Action) (*domain.Node, error) {
	node, err := domain.NewNode(name, domain.WithActions(action))
	if err != nil {
		return nil, err
	}
	if err := g.AddEdgeNode(node); err != nil {
		return nil, err
	}
	return node, nil
}

// SetCurrent repositions the builder cursor to a registered node, so the
// next AddEdgeNode or AddStep attaches there.
func (g *Graph) SetCurrent(name string) error {
	if g.status != domain.StatusBuild {
		return g.sealedErr()
	}
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("node %q: %w", name, domain.ErrNodeNotFound)
	}
	g.cursor = n
	return nil
}

func (g *Graph) attach(node *domain.Node, parent *domain.Node) error {
	if g.status != domain.StatusBuild {
		return g.sealedErr()
	}
	if node == nil {
		return fmt.Errorf("cannot attach a nil node")
	}
	if node.Name() == StartNodeName {
		return fmt.Errorf("node %q: %w", node.Name(), domain.ErrReservedName)
	}
	if _, exists := g.nodes[node.Name()]; exists {
		return fmt.Errorf("node %q: %w", node.Name(), domain.ErrDuplicateNode)
	}

	parent.AddChild(node)
	g.nodes[node.Name()] = node
	g.order = append(g.order, node.Name())
	g.cursor = node
	return nil
}

func (g *Graph) sealedErr() error {
	return fmt.Errorf("graph %q: %w", g.name, domain.ErrGraphSealed)
}

// Run executes the traversal exactly once.
//
// The returned report is always non-nil and describes the run even on
// failure. Errors raised by user callbacks propagate unchanged; exhausting a
// retry ceiling yields a *domain.RetryLimitError. A second Run on the same
// Graph fails with domain.ErrGraphSealed.
func (g *Graph) Run(ctx context.Context) (*domain.RunReport, error) {
	if g.status != domain.StatusBuild {
		report := &domain.RunReport{GraphName: g.name, Status: g.status}
		return report, g.sealedErr()
	}
	g.status = domain.StatusRunning

	engine := runtime.NewEngine(
		runtime.WithLogger(g.logger.With("graph", g.name)),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithMaxFallbackRetries(g.maxFallbackRetries),
	)

	report, err := engine.Run(ctx, g.root, g.driver, g.state)
	report.GraphName = g.name
	g.status = report.Status
	return report, err
}

// Inspect returns a read-only projection of every node in registration
// order, the synthetic root first. It is the input for visualization and the
// HTTP surface.
func (g *Graph) Inspect() []domain.NodeView {
	views := make([]domain.NodeView, 0, len(g.order))
	for _, name := range g.order {
		node := g.nodes[name]

		children := make([]string, 0, len(node.Children()))
		for _, child := range node.Children() {
			children = append(children, child.Name())
		}

		view := domain.NodeView{
			Name:     node.Name(),
			Children: children,
			Root:     node == g.root,
		}
		if node != g.root {
			view.Conditional = node.ConditionCount() > 0
			view.Actions = node.ActionCount()
			view.FallbackActions = node.FallbackActionCount()
			if limit, ok := node.MaxFallbackRetries(); ok {
				view.MaxFallbackRetries = limit
			}
		}
		views = append(views, view)
	}
	return views
}
