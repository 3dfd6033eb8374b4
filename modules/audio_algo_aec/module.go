package audio_algo_aec

import (
	"github.com/vk/aecgrid/internal/aec"
	"github.com/vk/aecgrid/internal/units"
)

// Name is the module name used in module.hcl.
const Name = "audio_algo_aec"

// Symbols provided by this module.
const (
	SymbolCanceller = "aec.Canceller"
	SymbolLms       = "aec.Lms"
	SymbolNlms      = "aec.Nlms"
)

var (
	_ aec.Canceller = (*aec.Lms)(nil)
	_ aec.Canceller = (*aec.Nlms)(nil)
)

// Module implements the units.Module interface for this package.
type Module struct{}

// Register registers the compiled sources of the echo canceller library.
func (m *Module) Register(r *units.Registry) {
	r.Register(units.Path(Name, "aec/lms.go"), &units.Unit{
		Provides: []string{SymbolCanceller, SymbolLms},
	})
	r.Register(units.Path(Name, "aec/nlms.go"), &units.Unit{
		Provides: []string{SymbolNlms},
		Requires: []string{SymbolCanceller},
	})
}
