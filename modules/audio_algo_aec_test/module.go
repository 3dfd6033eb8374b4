// Package aectest registers the sources of the audio_algo_aec_test binary.
package aectest

import (
	"github.com/vk/aecgrid/internal/testbin"
	"github.com/vk/aecgrid/internal/units"
	"github.com/vk/aecgrid/modules/audio_algo_aec"
)

// Name is the module name used in module.hcl.
const Name = "audio_algo_aec_test"

// SymbolLogger is the debug log instance of the binary.
const SymbolLogger = "debug.Logger"

// Module implements the units.Module interface for this package.
type Module struct{}

// Register registers the entry point and the debug helper of the test binary.
func (m *Module) Register(r *units.Registry) {
	r.Register(units.Path(Name, "test/main.go"), &units.Unit{
		Provides: []string{units.MainSymbol},
		Requires: []string{audio_algo_aec.SymbolLms, audio_algo_aec.SymbolNlms, SymbolLogger},
		Entry:    testbin.Main,
	})
	r.Register(units.Path(Name, "test/debug.go"), &units.Unit{
		Provides: []string{SymbolLogger},
	})
}
