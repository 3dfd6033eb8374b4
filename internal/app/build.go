package app

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/aecgrid/internal/descriptor"
	"github.com/vk/aecgrid/internal/units"
)

// BuildReport records how far a build got.
type BuildReport struct {
	Target   string
	Modules  []string          // dependency closure, dependencies first
	Compiled []string          // unit paths, in compile order
	Symbols  map[string]string // symbol -> providing unit path
}

// Binary is a linked BINARY module.
type Binary struct {
	Name    string
	Entry   units.EntryFunc
	Sources []string
	Symbols map[string]string
}

type compiledUnit struct {
	path string
	unit *units.Unit
}

// Build resolves the graph, compiles the sources of target's dependency
// closure in dependency order and links them. If resolution fails nothing is
// compiled. The report is returned even on failure.
func (a *App) Build(target string) (*Binary, *BuildReport, error) {
	report := &BuildReport{Target: target}
	if a.graph == nil {
		return nil, report, errors.New("modules are not loaded")
	}

	a.logger.Info("Build started.", "target", target)
	resolved, err := a.graph.Resolve(a.ctx)
	if err != nil {
		a.logger.Error("Module graph resolution failed.", "error", err)
		return nil, report, err
	}

	h, ok := resolved.Lookup(target)
	if !ok {
		return nil, report, &UnknownModuleError{Name: target}
	}
	closure := resolved.Closure(h)
	report.Modules = resolved.Names(closure)

	var compiled []compiledUnit
	for _, mh := range closure {
		d := resolved.Module(mh)
		for _, src := range d.Sources {
			path := units.Path(d.Name, src)
			unit, ok := a.units.Lookup(path)
			if !ok {
				err := &CompileError{Module: d.Name, Source: path}
				a.logger.Error("Compile step failed.", "error", err)
				return nil, report, err
			}
			a.logger.Debug("Compiled source.", "module", d.Name, "source", path)
			compiled = append(compiled, compiledUnit{path: path, unit: unit})
			report.Compiled = append(report.Compiled, path)
		}
	}

	bin, symbols, err := link(resolved.Module(h), compiled)
	report.Symbols = symbols
	if err != nil {
		a.logger.Error("Link step failed.", "error", err)
		return nil, report, err
	}

	a.logger.Info("Build finished.", "target", target, "modules", len(report.Modules), "sources", len(report.Compiled))
	return bin, report, nil
}

// link checks that every required symbol has exactly one provider. A BINARY
// additionally needs an entry point.
func link(target *descriptor.Descriptor, compiled []compiledUnit) (*Binary, map[string]string, error) {
	symbols := make(map[string]string)
	var problems []string

	for _, c := range compiled {
		for _, sym := range c.unit.Provides {
			if prev, ok := symbols[sym]; ok {
				problems = append(problems, fmt.Sprintf("duplicate symbol %s in %s and %s", sym, prev, c.path))
				continue
			}
			symbols[sym] = c.path
		}
	}
	for _, c := range compiled {
		for _, sym := range c.unit.Requires {
			if _, ok := symbols[sym]; !ok {
				problems = append(problems, fmt.Sprintf("undefined symbol %s referenced by %s", sym, c.path))
			}
		}
	}

	if target.Kind != descriptor.KindBinary {
		problems = append(problems, fmt.Sprintf("module is a %s, only %s modules can be linked", target.Kind, descriptor.KindBinary))
	}

	var entry units.EntryFunc
	if target.Kind == descriptor.KindBinary {
		mainPath, ok := symbols[units.MainSymbol]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("undefined symbol %s", units.MainSymbol))
		default:
			for _, c := range compiled {
				if c.path == mainPath {
					entry = c.unit.Entry
				}
			}
			if entry == nil {
				problems = append(problems, fmt.Sprintf("%s provides %s without an entry point", mainPath, units.MainSymbol))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, symbols, &LinkError{Target: target.Name, Problems: problems}
	}

	sources := make([]string, len(compiled))
	for i, c := range compiled {
		sources[i] = c.path
	}
	return &Binary{Name: target.Name, Entry: entry, Sources: sources, Symbols: symbols}, symbols, nil
}
