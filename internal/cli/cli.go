package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/aecgrid/internal/aec"
	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/harness"
)

// Exit codes of the test binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	Harness   harness.Config
	LogLevel  string
	LogFormat string
}

// Parse processes command-line arguments. It returns the populated Options,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("audio_algo_aec_test", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
audio_algo_aec_test - conformance test for the LMS/NLMS echo canceller.

Usage:
  audio_algo_aec_test --fb=FILE --mic=FILE [options]
  audio_algo_aec_test --synthetic [options]

Files are raw little-endian signed 16-bit mono samples.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := harness.DefaultConfig()
	cfg := def

	flagSet.StringVar(&cfg.FeedbackPath, "fb", "", "Feedback (far-end) signal file.")
	flagSet.StringVar(&cfg.MicrophonePath, "mic", "", "Microphone (near-end) signal file.")
	flagSet.IntVar(&cfg.FilterSize, "filter-size", 0, "Number of filter taps. 0 keeps the algorithm default.")
	flagSet.Float64Var(&cfg.Mu, "mu", 0, "Adaptation step. 0 keeps the algorithm default.")
	nlmsFlag := flagSet.Bool("nlms", false, "Use the power-normalised NLMS algorithm instead of LMS.")
	flagSet.BoolVar(&cfg.Perf, "perf", false, "Measure per-block processing time.")
	flagSet.IntVar(&cfg.SampleRate, "sample-rate", def.SampleRate, "Sample rate in Hz.")
	flagSet.IntVar(&cfg.BlockSize, "block-size", def.BlockSize, "Samples per processed block.")
	flagSet.StringVar(&cfg.OutputPath, "output", def.OutputPath, "Residual output file. Empty disables it.")
	flagSet.StringVar(&cfg.FilterPath, "filter-out", def.FilterPath, "Final filter dump (float32). Empty disables it.")
	flagSet.StringVar(&cfg.ReportPath, "report", "", "Write a YAML report to this file.")
	flagSet.Float64Var(&cfg.MinERLE, "min-erle", def.MinERLE, "Minimum echo return loss enhancement in dB.")
	flagSet.BoolVar(&cfg.Synthetic, "synthetic", false, "Generate the feedback/microphone pair instead of reading files.")
	flagSet.Float64Var(&cfg.Seconds, "seconds", def.Seconds, "Length of the synthetic fixture in seconds.")
	flagSet.Uint64Var(&cfg.Seed, "seed", def.Seed, "Seed of the synthetic fixture.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'verbose', 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	if *nlmsFlag {
		cfg.Algorithm = aec.AlgorithmNLMS
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	if _, err := debug.ParseLevel(logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	return &Options{Harness: cfg, LogLevel: logLevel, LogFormat: logFormat}, false, nil
}
