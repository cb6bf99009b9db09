/*
Package domain contains the core vocabulary of the web-graph engine.

It defines the Node (a named unit of automation work with actions, gating
conditions, fallback actions and an optional retry ceiling), the callback
contract shared by every node, the mutable State container handed to every
callback during a run, the error taxonomy, and the lifecycle events used by
observability bridges.

The package has no dependencies on the traversal engine or on any adapter;
it is safe to import from anywhere in the module.
*/
package domain
