// Package units holds the Go side of a module's source files. A descriptor
// names its sources as paths; each path is backed by a registered Unit that
// declares which symbols it provides and which it needs from the rest of the
// binary. Compiling a source means finding its Unit, linking means checking
// that every required symbol is provided.
package units

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
)

// MainSymbol is the symbol every linked binary must provide.
const MainSymbol = "main"

// EntryFunc is the entry point of a linked binary. It returns the process
// exit code.
type EntryFunc func(ctx context.Context, args []string, stdout, stderr io.Writer) int

// Unit is the compiled form of one source file.
type Unit struct {
	Provides []string
	Requires []string
	// Entry is set only on the unit that provides MainSymbol.
	Entry EntryFunc
}

// Module contributes units to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered units, keyed by Path.
type Registry struct {
	all map[string]*Unit
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		all: make(map[string]*Unit),
	}
}

// Path is the registry key of a source listed by a module.
func Path(module, source string) string {
	return path.Join(module, source)
}

// Register adds the unit compiled from path. Registering the same path twice
// is a programmer error and panics.
func (r *Registry) Register(path string, unit *Unit) {
	if _, exists := r.all[path]; exists {
		panic(fmt.Sprintf("source unit with path '%s' already registered", path))
	}
	slog.Debug("Registering source unit.", "path", path)
	r.all[path] = unit
}

// Lookup returns the unit registered for path.
func (r *Registry) Lookup(path string) (*Unit, bool) {
	u, ok := r.all[path]
	return u, ok
}

// Paths returns every registered path in lexical order.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.all))
	for p := range r.all {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
