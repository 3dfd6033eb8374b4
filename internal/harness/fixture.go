package harness

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/pcm"
)

// Fixture is a far-end/near-end pair with a known echo path.
type Fixture struct {
	Far      []int16
	Near     []int16
	EchoPath map[int]float64 // delay in samples -> gain
}

// DefaultEchoPath is a decaying room response that fits in the default
// 256-tap filter.
var DefaultEchoPath = map[int]float64{
	24:  0.6,
	48:  -0.3,
	96:  0.15,
	160: -0.08,
}

// farPeak is the far-end peak amplitude, about -12 dBFS.
const farPeak = 8192

// nearNoisePeak is the near-end background noise floor.
const nearNoisePeak = 4

// GenerateFixture synthesises white-noise playback and its echo through
// DefaultEchoPath plus a low noise floor. The same seed yields the same
// fixture.
func GenerateFixture(seconds float64, sampleRate int, seed uint64) *Fixture {
	n := int(seconds * float64(sampleRate))
	r := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))

	far := make([]int16, n)
	for i := range far {
		far[i] = int16(r.IntN(2*farPeak+1) - farPeak)
	}

	delays := make([]int, 0, len(DefaultEchoPath))
	for d := range DefaultEchoPath {
		delays = append(delays, d)
	}
	sort.Ints(delays)

	near := make([]int16, n)
	for i := range near {
		v := float64(r.IntN(2*nearNoisePeak+1) - nearNoisePeak)
		for _, d := range delays {
			if i-d >= 0 {
				v += DefaultEchoPath[d] * float64(far[i-d])
			}
		}
		near[i] = int16(max(math.MinInt16, min(math.MaxInt16, math.Round(v))))
	}

	return &Fixture{Far: far, Near: near, EchoPath: DefaultEchoPath}
}

// LoadFixture reads the feedback and microphone files named by cfg, or
// generates a synthetic pair when cfg.Synthetic is set.
func LoadFixture(ctx context.Context, cfg *Config) (*Fixture, error) {
	logger := debug.FromContext(ctx)

	if cfg.Synthetic {
		f := GenerateFixture(cfg.Seconds, cfg.SampleRate, cfg.Seed)
		logger.Info("Generated synthetic fixture.", "samples", len(f.Far), "seed", cfg.Seed)
		return f, nil
	}

	logger.Info("Read FeedBack:", "path", cfg.FeedbackPath)
	far, err := pcm.ReadInt16File(cfg.FeedbackPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	logger.Info("Feedback loaded.", "samples", len(far))

	logger.Info("Read Microphone:", "path", cfg.MicrophonePath)
	near, err := pcm.ReadInt16File(cfg.MicrophonePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load microphone: %w", err)
	}
	logger.Info("Microphone loaded.", "samples", len(near))

	return &Fixture{Far: far, Near: near}, nil
}
