package buildgraph

import "fmt"

// DuplicateModuleError is returned when a name is registered twice with
// different descriptors.
type DuplicateModuleError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module '%s' declared twice: %s and %s", e.Name, e.First, e.Second)
}

// UnresolvedDependencyError is returned when a module depends on a name that
// was never registered.
type UnresolvedDependencyError struct {
	Module     string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("unresolved dependency: %s (required by module '%s')", e.Dependency, e.Module)
}

// CycleError is returned when the dependencies loop back on themselves.
type CycleError struct {
	Module string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving '%s'", e.Module)
}
