package harness

import (
	"math"
	"time"
)

// ERLE returns the echo return loss enhancement, in dB, of out against mic
// over the last quarter of the samples. A zero residual is +Inf; a window
// without echo energy is NaN.
func ERLE(mic, out []int16) float64 {
	n := min(len(mic), len(out))
	return erleRange(mic[:n], out[:n], n*3/4, n)
}

func erleRange(mic, out []int16, from, to int) float64 {
	var pm, po float64
	for i := from; i < to; i++ {
		pm += float64(mic[i]) * float64(mic[i])
		po += float64(out[i]) * float64(out[i])
	}
	switch {
	case pm == 0:
		return math.NaN()
	case po == 0:
		return math.Inf(1)
	}
	return 10 * math.Log10(pm/po)
}

// ConvergenceSample returns the first sample of the earliest block from
// which every following block reaches minERLE, or -1 if the final block
// does not or blockSize is not positive. Blocks without echo energy count as converged.
func ConvergenceSample(mic, out []int16, blockSize int, minERLE float64) int {
	if blockSize <= 0 {
		return -1
	}
	blocks := min(len(mic), len(out)) / blockSize
	first := -1
	for b := blocks - 1; b >= 0; b-- {
		v := erleRange(mic, out, b*blockSize, (b+1)*blockSize)
		if !math.IsNaN(v) && v < minERLE {
			break
		}
		first = b
	}
	if first < 0 {
		return -1
	}
	return first * blockSize
}

// PerfStats summarises per-block processing time.
type PerfStats struct {
	Blocks  int           `yaml:"blocks"`
	Min     time.Duration `yaml:"min"`
	Max     time.Duration `yaml:"max"`
	Avg     time.Duration `yaml:"avg"`
	MinLoad float64       `yaml:"min_load_percent"`
	MaxLoad float64       `yaml:"max_load_percent"`
	AvgLoad float64       `yaml:"avg_load_percent"`

	total time.Duration
}

func (p *PerfStats) add(d time.Duration) {
	if p.Blocks == 0 || d < p.Min {
		p.Min = d
	}
	if d > p.Max {
		p.Max = d
	}
	p.total += d
	p.Blocks++
}

// finish derives the averages and the share of real time each block used.
func (p *PerfStats) finish(sampleRate, blockSize int) {
	if p.Blocks == 0 {
		return
	}
	p.Avg = p.total / time.Duration(p.Blocks)
	p.MinLoad = load(p.Min, sampleRate, blockSize)
	p.MaxLoad = load(p.Max, sampleRate, blockSize)
	p.AvgLoad = load(p.Avg, sampleRate, blockSize)
}

// load is the processing time as a percentage of the block's duration.
func load(d time.Duration, sampleRate, blockSize int) float64 {
	return float64(d.Nanoseconds()) * float64(sampleRate) / float64(blockSize) / 1e9 * 100
}
