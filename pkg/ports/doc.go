// Package ports defines the interfaces between the graph engine's
// collaborators and their adapters: the browser driver consumed by the
// element locator layer, and the store that persists run reports.
//
// The traversal engine itself depends on none of these; it treats the driver
// as an opaque handle.
package ports
