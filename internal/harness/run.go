package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vk/aecgrid/internal/aec"
	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/pcm"
)

// Check names.
const (
	CheckResidualERLE = "residual_erle"
	CheckFilterFinite = "filter_finite"
	CheckOutputLength = "output_length"
)

// Check is the outcome of one assertion on a run.
type Check struct {
	Name   string `yaml:"name"`
	Passed bool   `yaml:"passed"`
	Detail string `yaml:"detail"`
}

// Result describes a finished run.
type Result struct {
	RunID             string     `yaml:"run_id"`
	Algorithm         string     `yaml:"algorithm"`
	SampleRate        int        `yaml:"sample_rate"`
	BlockSize         int        `yaml:"block_size"`
	Blocks            int        `yaml:"blocks"`
	Samples           int        `yaml:"samples"`
	ERLE              float64    `yaml:"erle_db"`
	ConvergenceSample int        `yaml:"convergence_sample"`
	Checks            []Check    `yaml:"checks"`
	Perf              *PerfStats `yaml:"perf,omitempty"`
	Passed            bool       `yaml:"passed"`

	Output []int16   `yaml:"-"`
	Filter []float32 `yaml:"-"`
}

// FailedChecks returns the names of the checks that did not pass.
func (r *Result) FailedChecks() []string {
	var failed []string
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

// Run processes fixture through canceller block by block and evaluates the
// residual. An error means the run could not complete; a completed run that
// misses its tolerances returns a Result with Passed == false.
func Run(ctx context.Context, cfg *Config, canceller aec.Canceller, fixture *Fixture) (*Result, error) {
	logger := debug.FromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Algorithm:  cfg.Algorithm,
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
	}
	logger = logger.With("run_id", res.RunID)

	length := min(len(fixture.Far), len(fixture.Near))
	output := make([]int16, length)
	res.Blocks = length / cfg.BlockSize
	total := res.Blocks * cfg.BlockSize

	banner(logger, cfg.Algorithm)

	var perf *PerfStats
	if cfg.Perf {
		perf = &PerfStats{}
	}

	lastPercent := -1
	for b := range res.Blocks {
		lo, hi := b*cfg.BlockSize, (b+1)*cfg.BlockSize
		if percent := 100 * b / res.Blocks; percent != lastPercent {
			lastPercent = percent
			logger.Info("Process", "sample", lo, "total", total, "percent", percent)
		} else {
			logger.Log(ctx, debug.LevelVerbose, "Process", "sample", lo, "total", total)
		}

		start := time.Now()
		if err := canceller.Process(output[lo:hi], fixture.Far[lo:hi], fixture.Near[lo:hi]); err != nil {
			return nil, fmt.Errorf("echo canceller failed at sample %d: %w", lo, err)
		}
		if perf != nil {
			perf.add(time.Since(start))
			if err := pause(ctx, cfg.PerfPause); err != nil {
				return nil, err
			}
		}
		res.Samples = hi
	}

	res.Output = output[:res.Samples]
	res.Filter = canceller.Filter()
	if perf != nil {
		perf.finish(cfg.SampleRate, cfg.BlockSize)
		res.Perf = perf
		logPerf(logger, cfg.BlockSize, perf)
	}

	mic := fixture.Near[:res.Samples]
	res.ERLE = ERLE(mic, res.Output)
	res.ConvergenceSample = ConvergenceSample(mic, res.Output, cfg.BlockSize, cfg.MinERLE)
	res.Checks = evaluate(cfg, res, total)
	res.Passed = len(res.FailedChecks()) == 0

	for _, c := range res.Checks {
		if c.Passed {
			logger.Info("Check passed.", "check", c.Name, "detail", c.Detail)
		} else {
			logger.Error("Check failed.", "check", c.Name, "detail", c.Detail)
		}
	}

	if err := writeOutputs(ctx, cfg, res); err != nil {
		return nil, err
	}
	return res, nil
}

func evaluate(cfg *Config, res *Result, total int) []Check {
	checks := make([]Check, 0, 3)

	erle := Check{Name: CheckResidualERLE}
	switch {
	case math.IsNaN(res.ERLE):
		erle.Detail = "no echo energy in the analysis window"
	default:
		erle.Passed = res.ERLE >= cfg.MinERLE
		erle.Detail = fmt.Sprintf("erle=%.2f dB min=%.2f dB convergence_sample=%d", res.ERLE, cfg.MinERLE, res.ConvergenceSample)
	}
	checks = append(checks, erle)

	finite := Check{Name: CheckFilterFinite, Passed: true, Detail: fmt.Sprintf("%d coefficients", len(res.Filter))}
	for i, w := range res.Filter {
		if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			finite.Passed = false
			finite.Detail = fmt.Sprintf("coefficient %d is %v", i, w)
			break
		}
	}
	checks = append(checks, finite)

	length := Check{Name: CheckOutputLength}
	switch {
	case res.Blocks == 0:
		length.Detail = fmt.Sprintf("input shorter than one block of %d samples", cfg.BlockSize)
	default:
		length.Passed = len(res.Output) == total
		length.Detail = fmt.Sprintf("processed %d/%d samples", len(res.Output), total)
	}
	checks = append(checks, length)

	return checks
}

func writeOutputs(ctx context.Context, cfg *Config, res *Result) error {
	logger := debug.FromContext(ctx)
	if cfg.OutputPath != "" {
		if err := pcm.WriteInt16File(cfg.OutputPath, res.Output); err != nil {
			return err
		}
		logger.Debug("Residual written.", "path", cfg.OutputPath)
	}
	if cfg.FilterPath != "" {
		if err := pcm.WriteFloat32File(cfg.FilterPath, res.Filter); err != nil {
			return err
		}
		logger.Debug("Filter written.", "path", cfg.FilterPath)
	}
	if cfg.ReportPath != "" {
		if err := WriteReport(cfg.ReportPath, res); err != nil {
			return err
		}
		logger.Debug("Report written.", "path", cfg.ReportPath)
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func banner(logger *slog.Logger, algorithm string) {
	name := "LMS"
	if strings.EqualFold(algorithm, aec.AlgorithmNLMS) {
		name = "NLMS (power)"
	}
	logger.Info("Starting echo cancellation.", "algorithm", name)
}

func logPerf(logger *slog.Logger, blockSize int, p *PerfStats) {
	logger.Info("Performance Result:",
		"block_size", blockSize,
		"min_ns", p.Min.Nanoseconds(),
		"max_ns", p.Max.Nanoseconds(),
		"avg_ns", p.Avg.Nanoseconds(),
		"min_load_percent", p.MinLoad,
		"max_load_percent", p.MaxLoad,
		"avg_load_percent", p.AvgLoad,
	)
}
