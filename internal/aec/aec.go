package aec

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultFilterSize is the number of adaptive taps. 256 samples cover
	// 5.3 ms at 48 kHz, enough for a short direct acoustic path.
	DefaultFilterSize = 256

	// DefaultLmsMu is the LMS step size. LMS is only stable while
	// mu < 2 / (taps * input power), so the default stays small.
	DefaultLmsMu = 0.03

	// DefaultNlmsMu is the NLMS step size (0 < mu < 2).
	DefaultNlmsMu = 0.5

	// powerFloor keeps the NLMS update finite while the reference is silent.
	powerFloor = 1e-10

	sampleScale = 32768.0
)

var (
	// ErrInvalidFilterSize is returned when a filter size is not positive.
	ErrInvalidFilterSize = errors.New("aec: filter size must be positive")
	// ErrInvalidMu is returned when a step size is outside the stable range.
	ErrInvalidMu = errors.New("aec: step size out of range")
	// ErrBlockSize is returned when the output, feedback and microphone
	// blocks are empty or differ in length.
	ErrBlockSize = errors.New("aec: mismatched or empty sample block")
)

// Canceller is the call surface shared by every echo canceller.
type Canceller interface {
	// Process writes microphone minus the estimated echo of feedback into
	// out. All three slices must have the same, non-zero length.
	Process(out, feedback, microphone []int16) error
	// Filter returns a copy of the current adaptive coefficients.
	Filter() []float32
	// Reset clears the coefficients and the feedback history.
	Reset()
}

// Algorithm names accepted by New.
const (
	AlgorithmLMS  = "lms"
	AlgorithmNLMS = "nlms"
)

// New builds a canceller by algorithm name. A zero filterSize or mu keeps
// the algorithm's default.
func New(algorithm string, filterSize int, mu float64) (Canceller, error) {
	switch strings.ToLower(algorithm) {
	case AlgorithmLMS, "":
		c := NewLms()
		if err := configure(c, filterSize, mu); err != nil {
			return nil, err
		}
		return c, nil
	case AlgorithmNLMS:
		c := NewNlms()
		if err := configure(c, filterSize, mu); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("aec: unknown algorithm %q", algorithm)
	}
}

type tunable interface {
	SetFilterSize(n int) error
	SetMu(mu float64) error
}

func configure(t tunable, filterSize int, mu float64) error {
	if filterSize != 0 {
		if err := t.SetFilterSize(filterSize); err != nil {
			return err
		}
	}
	if mu != 0 {
		if err := t.SetMu(mu); err != nil {
			return err
		}
	}
	return nil
}

// filter holds the state shared by LMS and NLMS.
//
// history is stored twice back to back so the most recent taps are always
// the contiguous window history[pos:pos+taps], newest sample first.
type filter struct {
	taps    int
	mu      float64
	weights []float64
	history []float64
	pos     int
}

func newFilter(taps int, mu float64) filter {
	f := filter{mu: mu}
	f.resize(taps)
	return f
}

func (f *filter) resize(taps int) {
	f.taps = taps
	f.weights = make([]float64, taps)
	f.history = make([]float64, 2*taps)
	f.pos = 0
}

func (f *filter) reset() {
	clear(f.weights)
	clear(f.history)
	f.pos = 0
}

// push records a feedback sample and returns the current tap window.
func (f *filter) push(x float64) []float64 {
	f.pos--
	if f.pos < 0 {
		f.pos = f.taps - 1
	}
	f.history[f.pos] = x
	f.history[f.pos+f.taps] = x
	return f.history[f.pos : f.pos+f.taps]
}

func (f *filter) coefficients() []float32 {
	out := make([]float32, len(f.weights))
	for i, w := range f.weights {
		out[i] = float32(w)
	}
	return out
}

func checkBlock(out, feedback, microphone int) error {
	if out == 0 || out != feedback || out != microphone {
		return fmt.Errorf("%w: out=%d feedback=%d microphone=%d", ErrBlockSize, out, feedback, microphone)
	}
	return nil
}

func toFloat(s int16) float64 {
	return float64(s) / sampleScale
}

func toInt16(v float64) int16 {
	v = math.Round(v * sampleScale)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	case math.IsNaN(v):
		return 0
	}
	return int16(v)
}
