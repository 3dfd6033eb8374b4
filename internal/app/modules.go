package app

import (
	"github.com/vk/aecgrid/internal/units"
	"github.com/vk/aecgrid/modules/audio_algo_aec"
	aectest "github.com/vk/aecgrid/modules/audio_algo_aec_test"
)

// coreModules is the definitive list of all modules whose sources are
// compiled into the aecbuild binary.
var coreModules = []units.Module{
	&audio_algo_aec.Module{},
	&aectest.Module{},
}

// CoreUnits returns a registry holding the units of every core module.
func CoreUnits() *units.Registry {
	reg := units.New()
	for _, mod := range coreModules {
		mod.Register(reg)
	}
	return reg
}
