// Package buildgraph turns a set of module descriptors into a resolved,
// acyclic dependency graph. Modules are registered by name; Resolve replaces
// every dependency name with a typed Handle once, rejects missing names and
// cycles, and fixes a deterministic build order. Nothing in this package is
// global: each Graph is an independent value owned by its caller.
package buildgraph
