package descriptor

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Build modes.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Target is the platform a build is for. Descriptors see it as `target`.
type Target struct {
	OS   string `cty:"os"`
	Arch string `cty:"arch"`
	Mode string `cty:"mode"`
}

var targetType = cty.Object(map[string]cty.Type{
	"os":   cty.String,
	"arch": cty.String,
	"mode": cty.String,
})

// HostTarget is a release build for the running platform.
func HostTarget() Target {
	return Target{OS: runtime.GOOS, Arch: runtime.GOARCH, Mode: ModeRelease}
}

// WithDefaults fills empty fields from HostTarget.
func (t Target) WithDefaults() Target {
	host := HostTarget()
	if t.OS == "" {
		t.OS = host.OS
	}
	if t.Arch == "" {
		t.Arch = host.Arch
	}
	if t.Mode == "" {
		t.Mode = host.Mode
	}
	return t
}

// Validate rejects unknown build modes.
func (t Target) Validate() error {
	if t.Mode != ModeDebug && t.Mode != ModeRelease {
		return fmt.Errorf("invalid build mode %q: must be '%s' or '%s'", t.Mode, ModeDebug, ModeRelease)
	}
	return nil
}

func (t Target) String() string {
	return t.OS + "/" + t.Arch + "/" + t.Mode
}

// functions are the HCL functions available to descriptors.
var functions = map[string]function.Function{
	"concat":   stdlib.ConcatFunc,
	"distinct": stdlib.DistinctFunc,
	"format":   stdlib.FormatFunc,
	"lower":    stdlib.LowerFunc,
	"upper":    stdlib.UpperFunc,
}

// EvalContext returns the evaluation context descriptors are decoded with.
func EvalContext(t Target) (*hcl.EvalContext, error) {
	target, err := gocty.ToCtyValue(t, targetType)
	if err != nil {
		return nil, fmt.Errorf("failed to convert build target: %w", err)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"target": target},
		Functions: functions,
	}, nil
}
