package buildgraph

import (
	"context"
	"slices"
	"sort"

	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/descriptor"
)

// Handle identifies a module inside one Graph.
type Handle int

// Graph collects module descriptors before resolution.
type Graph struct {
	modules []*descriptor.Descriptor
	byName  map[string]Handle
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		byName: make(map[string]Handle),
	}
}

// Register adds d to the graph. Registering an equal descriptor again returns
// the existing handle; a different descriptor under a taken name is a
// DuplicateModuleError. Invalid descriptors are rejected.
func (g *Graph) Register(d *descriptor.Descriptor) (Handle, error) {
	if err := d.Validate(); err != nil {
		return -1, err
	}
	if h, ok := g.byName[d.Name]; ok {
		existing := g.modules[h]
		if existing.Equal(d) {
			return h, nil
		}
		return -1, &DuplicateModuleError{Name: d.Name, First: existing.Location(), Second: d.Location()}
	}
	h := Handle(len(g.modules))
	g.modules = append(g.modules, d)
	g.byName[d.Name] = h
	return h, nil
}

// Len returns the number of registered modules.
func (g *Graph) Len() int {
	return len(g.modules)
}

// Resolve links every dependency name to its module, checks the graph for
// cycles and computes the build order.
func (g *Graph) Resolve(ctx context.Context) (*Resolved, error) {
	logger := debug.FromContext(ctx)
	logger.Debug("Resolving module graph.", "modules", len(g.modules))

	deps := make([][]Handle, len(g.modules))
	for h, d := range g.modules {
		deps[h] = make([]Handle, 0, len(d.Depends))
		for _, name := range d.Depends {
			dep, ok := g.byName[name]
			if !ok {
				return nil, &UnresolvedDependencyError{Module: d.Name, Dependency: name}
			}
			deps[h] = append(deps[h], dep)
		}
	}

	r := &Resolved{
		modules: slices.Clone(g.modules),
		deps:    deps,
		byName:  make(map[string]Handle, len(g.byName)),
	}
	for name, h := range g.byName {
		r.byName[name] = h
	}

	// Depth-first search with three sets of modules:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	// unvisited: all the others.
	permanent := make(map[Handle]bool)
	temporary := make(map[Handle]bool)

	var visit func(h Handle) error
	visit = func(h Handle) error {
		if permanent[h] {
			return nil
		}
		if temporary[h] {
			return &CycleError{Module: g.modules[h].Name}
		}
		temporary[h] = true
		for _, dep := range deps[h] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, h)
		permanent[h] = true
		r.order = append(r.order, h)
		return nil
	}

	for _, h := range r.sortedHandles() {
		if err := visit(h); err != nil {
			return nil, err
		}
	}

	logger.Debug("Module graph resolved.", "order", r.Names(r.order))
	return r, nil
}

// Resolved is an acyclic graph in which every dependency is a Handle.
type Resolved struct {
	modules []*descriptor.Descriptor
	deps    [][]Handle
	byName  map[string]Handle
	order   []Handle
}

// Lookup returns the handle of the named module.
func (r *Resolved) Lookup(name string) (Handle, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Module returns the descriptor behind h.
func (r *Resolved) Module(h Handle) *descriptor.Descriptor {
	return r.modules[h]
}

// DepsOf returns the direct dependencies of h in declaration order.
func (r *Resolved) DepsOf(h Handle) []Handle {
	return slices.Clone(r.deps[h])
}

// Order returns every module with dependencies before their dependents.
// Independent modules are ordered by name.
func (r *Resolved) Order() []Handle {
	return slices.Clone(r.order)
}

// Closure returns h and everything it transitively depends on, dependencies
// first and h last.
func (r *Resolved) Closure(h Handle) []Handle {
	seen := make(map[Handle]bool)
	var out []Handle
	var visit func(h Handle)
	visit = func(h Handle) {
		if seen[h] {
			return
		}
		seen[h] = true
		for _, dep := range r.deps[h] {
			visit(dep)
		}
		out = append(out, h)
	}
	visit(h)
	return out
}

// Names maps handles to module names.
func (r *Resolved) Names(hs []Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = r.modules[h].Name
	}
	return out
}

func (r *Resolved) sortedHandles() []Handle {
	hs := make([]Handle, len(r.modules))
	for i := range hs {
		hs[i] = Handle(i)
	}
	sort.Slice(hs, func(i, j int) bool {
		return r.modules[hs[i]].Name < r.modules[hs[j]].Name
	})
	return hs
}
