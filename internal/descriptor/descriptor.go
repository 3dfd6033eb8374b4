// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package descriptor

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the artifact a module produces.
type Kind string

const (
	KindBinary   Kind = "BINARY"
	KindLibrary  Kind = "LIBRARY"
	KindPackage  Kind = "PACKAGE"
	KindPrebuild Kind = "PREBUILD"
)

// Kinds lists every valid kind.
var Kinds = []Kind{KindBinary, KindLibrary, KindPackage, KindPrebuild}

// ParseKind converts s, in any letter case, into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown module kind %q: must be one of %s", s, strings.Join(names, ", "))
}

// needsSources reports whether the kind compiles code.
func (k Kind) needsSources() bool {
	return k == KindBinary || k == KindLibrary
}

// FSInfo links a descriptor back to the file it was declared in.
type FSInfo struct {
	FilePath string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// Descriptor is one declared module.
type Descriptor struct {
	Name        string
	Kind        Kind
	Description string
	Sources     []string
	Depends     []string

	FSInfo *FSInfo
}

// Location returns the declaring file, or "<memory>" for descriptors built
// in code.
func (d *Descriptor) Location() string {
	if d.FSInfo == nil || d.FSInfo.FilePath == "" {
		return "<memory>"
	}
	return d.FSInfo.FilePath
}

// ValidationError lists everything wrong with one descriptor.
type ValidationError struct {
	Module   string
	Location string
	Problems []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid module '%s' (%s):", e.Module, e.Location)
	for _, p := range e.Problems {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

// Validate checks the descriptor's own invariants. Whether its dependencies
// exist is decided by the build graph.
func (d *Descriptor) Validate() error {
	var problems []string

	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name must not be empty")
	}
	if _, err := ParseKind(string(d.Kind)); err != nil {
		problems = append(problems, err.Error())
	}
	if d.Kind.needsSources() && len(d.Sources) == 0 {
		problems = append(problems, fmt.Sprintf("a %s module must list at least one source", d.Kind))
	}

	seen := make(map[string]bool, len(d.Sources))
	for i, s := range d.Sources {
		switch {
		case strings.TrimSpace(s) == "":
			problems = append(problems, fmt.Sprintf("source #%d is empty", i))
		case seen[s]:
			problems = append(problems, fmt.Sprintf("source '%s' is listed more than once", s))
		}
		seen[s] = true
	}

	seen = make(map[string]bool, len(d.Depends))
	for i, dep := range d.Depends {
		switch {
		case strings.TrimSpace(dep) == "":
			problems = append(problems, fmt.Sprintf("dependency #%d is empty", i))
		case dep == d.Name:
			problems = append(problems, "module must not depend on itself")
		case seen[dep]:
			problems = append(problems, fmt.Sprintf("dependency '%s' is listed more than once", dep))
		}
		seen[dep] = true
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Module: d.Name, Location: d.Location(), Problems: problems}
}

// Equal reports whether d and other declare the same module. Where they were
// declared does not matter.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Name == other.Name &&
		d.Kind == other.Kind &&
		d.Description == other.Description &&
		slices.Equal(d.Sources, other.Sources) &&
		slices.Equal(d.Depends, other.Depends)
}
