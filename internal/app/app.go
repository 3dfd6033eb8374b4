package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/vk/aecgrid/internal/buildgraph"
	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/descriptor"
	"github.com/vk/aecgrid/internal/units"
)

// logInstance tags every record of the orchestrator.
const logInstance = "aecbuild"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx    context.Context
	outW   io.Writer
	logger *slog.Logger
	config *Config
	units  *units.Registry

	modules []*descriptor.Descriptor
	graph   *buildgraph.Graph
}

// NewApp is the constructor for the orchestrator. It returns an App with its
// own isolated logger. When reg is nil the units of the core modules are used.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, reg *units.Registry) *App {
	logger := debug.NewLogger(outW, cfg.LogLevel, cfg.LogFormat, logInstance)
	ctx = debug.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if reg == nil {
		reg = CoreUnits()
		logger.Debug("All core modules registered.", "count", len(coreModules))
	} else {
		logger.Debug("Using pre-configured unit registry.")
	}

	return &App{
		ctx:    ctx,
		outW:   outW,
		logger: logger,
		config: cfg,
		units:  reg,
	}
}

// LoadModules reads every descriptor under the modules path into a fresh
// build graph.
func (a *App) LoadModules() error {
	a.logger.Debug("Loading modules...", "modules_path", a.config.ModulesPath, "target", a.config.Target.String())

	ds, err := descriptor.LoadRecursively(a.ctx, a.config.ModulesPath, a.config.Target)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	graph := buildgraph.New()
	for _, d := range ds {
		if _, err := graph.Register(d); err != nil {
			return err
		}
	}

	a.modules = ds
	a.graph = graph
	a.logger.Info("Modules loaded successfully.", "modules_found", graph.Len())
	return nil
}

// Modules returns the loaded descriptors sorted by name. Repeated identical
// declarations are listed once.
func (a *App) Modules() []*descriptor.Descriptor {
	seen := make(map[string]bool, len(a.modules))
	out := make([]*descriptor.Descriptor, 0, len(a.modules))
	for _, d := range a.modules {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Describe returns the loaded descriptor called name.
func (a *App) Describe(name string) (*descriptor.Descriptor, error) {
	for _, d := range a.modules {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, &UnknownModuleError{Name: name}
}

// Graph returns the application's build graph. This is primarily for testing.
func (a *App) Graph() *buildgraph.Graph {
	return a.graph
}

// Units returns the application's unit registry. This is primarily for testing.
func (a *App) Units() *units.Registry {
	return a.units
}
