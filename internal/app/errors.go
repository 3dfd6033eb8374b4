package app

import (
	"fmt"
	"strings"
)

// UnknownModuleError is returned when a target names no loaded module.
type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module '%s'", e.Name)
}

// CompileError is returned when a listed source has no registered unit.
type CompileError struct {
	Module string
	Source string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile failed: no source unit registered for %s (module '%s')", e.Source, e.Module)
}

// LinkError lists every problem found while linking a target.
type LinkError struct {
	Target   string
	Problems []string
}

func (e *LinkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "link failed for '%s':", e.Target)
	for _, p := range e.Problems {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}
