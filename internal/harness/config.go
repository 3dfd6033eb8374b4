package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/aecgrid/internal/aec"
)

// Config holds everything one conformance run needs.
type Config struct {
	FeedbackPath   string // far-end reference, raw int16
	MicrophonePath string // near-end capture, raw int16

	Algorithm  string // aec.AlgorithmLMS or aec.AlgorithmNLMS
	FilterSize int    // 0 keeps the algorithm default
	Mu         float64

	SampleRate int
	BlockSize  int

	Perf      bool
	PerfPause time.Duration

	OutputPath string // residual, raw int16; empty skips
	FilterPath string // final coefficients, raw float32; empty skips
	ReportPath string // YAML report; empty skips

	MinERLE float64 // dB

	Synthetic bool
	Seconds   float64
	Seed      uint64
}

// DefaultConfig returns the defaults of the test binary.
func DefaultConfig() Config {
	return Config{
		Algorithm:  aec.AlgorithmLMS,
		SampleRate: 48000,
		BlockSize:  256,
		PerfPause:  10 * time.Millisecond,
		OutputPath: "output.raw",
		FilterPath: "filter.raw",
		MinERLE:    6,
		Seconds:    5,
		Seed:       1,
	}
}

// Validate reports configuration that cannot produce a run.
func (c *Config) Validate() error {
	if !c.Synthetic && (c.FeedbackPath == "" || c.MicrophonePath == "") {
		return errors.New("Can not Process missing parameters...")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.FilterSize < 0 {
		return fmt.Errorf("filter size must not be negative, got %d", c.FilterSize)
	}
	if c.Synthetic && c.Seconds <= 0 {
		return fmt.Errorf("synthetic length must be positive, got %v", c.Seconds)
	}
	return nil
}
