/*
Package webgraph builds and executes directed workflow graphs of browser
automation steps.

A Graph is assembled through its builder API out of domain.Node values: each
node carries ordered actions, ordered gating conditions, ordered fallback
actions and an optional retry ceiling. Run walks the graph exactly once,
selecting at each frontier the first node (in insertion order) whose
conditions all pass, and falling back on the current node when nothing
matches, bounded by the resolved retry ceiling (node override over graph
default, unbounded when neither is set).

	drv := mustSession() // anything the callbacks understand, e.g. a webdriver session

	g := webgraph.New(drv, webgraph.WithMaxFallbackRetries(5))

	login, _ := domain.NewNode("login",
		domain.WithActions(openLoginForm, submitCredentials),
		domain.WithConditions(onLoginPage),
		domain.WithFallbackActions(reloadPage),
		domain.WithMaxFallbackRetries(3),
	)
	if err := g.AddEdgeNode(login); err != nil {
		// duplicate name, reserved name, unknown parent, ...
	}
	g.AddStep("dashboard", assertDashboard)

	report, err := g.Run(ctx)

A Graph instance is intended for exactly one Run; builder operations and
further Run calls fail once the graph is sealed. Workflows can also be loaded
from YAML definitions (pkg/adapters/file), visualized as Mermaid diagrams,
and executed through the bundled CLI and HTTP surface.
*/
package webgraph
