package aec

import "fmt"

// Nlms is a Normalised Least Mean Squares echo canceller. The step is
// divided by the power of the tap window, which makes convergence speed
// independent of the feedback level:
//
//	w[k] += mu·e·x[n−k] / ‖x‖²
type Nlms struct {
	filter
}

// NewNlms creates an NLMS canceller with DefaultFilterSize taps and
// DefaultNlmsMu.
func NewNlms() *Nlms {
	return &Nlms{filter: newFilter(DefaultFilterSize, DefaultNlmsMu)}
}

// SetFilterSize changes the number of taps. The filter restarts from zero.
func (n *Nlms) SetFilterSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFilterSize, size)
	}
	n.resize(size)
	return nil
}

// SetMu sets the normalised step, 0 < mu < 2.
func (n *Nlms) SetMu(mu float64) error {
	if !(mu > 0 && mu < 2) {
		return fmt.Errorf("%w: nlms mu %v not in (0, 2)", ErrInvalidMu, mu)
	}
	n.mu = mu
	return nil
}

// FilterSize returns the number of taps.
func (n *Nlms) FilterSize() int { return n.taps }

// Mu returns the normalised step.
func (n *Nlms) Mu() float64 { return n.mu }

// Process cancels the echo of feedback from microphone into out.
func (n *Nlms) Process(out, feedback, microphone []int16) error {
	if err := checkBlock(len(out), len(feedback), len(microphone)); err != nil {
		return err
	}
	for i := range out {
		out[i] = toInt16(n.sample(toFloat(feedback[i]), toFloat(microphone[i])))
	}
	return nil
}

// ProcessFloat is Process for normalised float samples in [-1, 1).
func (n *Nlms) ProcessFloat(out, feedback, microphone []float32) error {
	if err := checkBlock(len(out), len(feedback), len(microphone)); err != nil {
		return err
	}
	for i := range out {
		out[i] = float32(n.sample(float64(feedback[i]), float64(microphone[i])))
	}
	return nil
}

// Filter returns a copy of the coefficients.
func (n *Nlms) Filter() []float32 { return n.coefficients() }

// Reset zeroes the coefficients and the feedback history.
func (n *Nlms) Reset() { n.reset() }

func (n *Nlms) sample(fb, mic float64) float64 {
	window := n.push(fb)

	var y, power float64
	for k, x := range window {
		y += n.weights[k] * x
		power += x * x
	}
	e := mic - y

	if power > powerFloor {
		step := n.mu * e / power
		for k, x := range window {
			n.weights[k] += step * x
		}
	}
	return e
}
