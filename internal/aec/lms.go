package aec

import "fmt"

// Lms is a Least Mean Squares echo canceller.
//
// For every sample:
//
//	y = Σ w[k]·x[n−k]
//	e = mic[n] − y
//	w[k] += mu·e·x[n−k]
//
// and e is the output sample.
type Lms struct {
	filter
}

// NewLms creates an LMS canceller with DefaultFilterSize taps and
// DefaultLmsMu.
func NewLms() *Lms {
	return &Lms{filter: newFilter(DefaultFilterSize, DefaultLmsMu)}
}

// SetFilterSize changes the number of taps. The filter restarts from zero.
func (l *Lms) SetFilterSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFilterSize, n)
	}
	l.resize(n)
	return nil
}

// SetMu sets the adaptation step, 0 < mu ≤ 1. Coefficients are kept.
func (l *Lms) SetMu(mu float64) error {
	if !(mu > 0 && mu <= 1) {
		return fmt.Errorf("%w: lms mu %v not in (0, 1]", ErrInvalidMu, mu)
	}
	l.mu = mu
	return nil
}

// FilterSize returns the number of taps.
func (l *Lms) FilterSize() int { return l.taps }

// Mu returns the adaptation step.
func (l *Lms) Mu() float64 { return l.mu }

// Process cancels the echo of feedback from microphone into out.
func (l *Lms) Process(out, feedback, microphone []int16) error {
	if err := checkBlock(len(out), len(feedback), len(microphone)); err != nil {
		return err
	}
	for i := range out {
		out[i] = toInt16(l.sample(toFloat(feedback[i]), toFloat(microphone[i])))
	}
	return nil
}

// ProcessFloat is Process for normalised float samples in [-1, 1).
func (l *Lms) ProcessFloat(out, feedback, microphone []float32) error {
	if err := checkBlock(len(out), len(feedback), len(microphone)); err != nil {
		return err
	}
	for i := range out {
		out[i] = float32(l.sample(float64(feedback[i]), float64(microphone[i])))
	}
	return nil
}

// Filter returns a copy of the coefficients.
func (l *Lms) Filter() []float32 { return l.coefficients() }

// Reset zeroes the coefficients and the feedback history.
func (l *Lms) Reset() { l.reset() }

func (l *Lms) sample(fb, mic float64) float64 {
	window := l.push(fb)

	var y float64
	for k, x := range window {
		y += l.weights[k] * x
	}
	e := mic - y

	step := l.mu * e
	for k, x := range window {
		l.weights[k] += step * x
	}
	return e
}
