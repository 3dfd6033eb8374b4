// Package testbin is the entry point of the audio_algo_aec_test binary. It is
// shared by cmd/aec-test and by the test/main.go source unit that the build
// orchestrator links.
package testbin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/aecgrid/internal/aec"
	"github.com/vk/aecgrid/internal/cli"
	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/harness"
)

// CancellerFactory builds the echo canceller for a run.
type CancellerFactory func(algorithm string, filterSize int, mu float64) (aec.Canceller, error)

// Main runs the test binary against the library canceller and returns the
// process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return Run(ctx, aec.New, args, stdout, stderr)
}

// Run is Main with an injectable canceller.
func Run(ctx context.Context, newCanceller CancellerFactory, args []string, stdout, stderr io.Writer) (code int) {
	opts, shouldExit, err := cli.Parse(args, stderr)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(stderr, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintln(stderr, err)
		return cli.ExitUsage
	}
	if shouldExit {
		return cli.ExitOK
	}

	logger := debug.NewLogger(stderr, opts.LogLevel, opts.LogFormat, debug.DefaultInstance)
	ctx = debug.WithLogger(ctx, logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("A critical error occurred.", "panic", fmt.Sprint(r))
			code = cli.ExitFailure
		}
	}()

	cfg := opts.Harness
	canceller, err := newCanceller(cfg.Algorithm, cfg.FilterSize, cfg.Mu)
	if err != nil {
		logger.Error("Invalid echo canceller configuration.", "error", err)
		return cli.ExitUsage
	}

	fixture, err := harness.LoadFixture(ctx, &cfg)
	if err != nil {
		logger.Error("Failed to load input signals.", "error", err)
		return cli.ExitFailure
	}

	res, err := harness.Run(ctx, &cfg, canceller, fixture)
	if err != nil {
		logger.Error("Run aborted.", "error", err)
		return cli.ExitFailure
	}

	verdict := "PASS"
	if !res.Passed {
		verdict = "FAIL"
	}
	printVerdict(stdout, fmt.Sprintf("%s algorithm=%s samples=%d erle=%.2fdB convergence_sample=%d\n",
		verdict, res.Algorithm, res.Samples, res.ERLE, res.ConvergenceSample))

	if !res.Passed {
		logger.Error("Echo cancellation test failed.", "failed_checks", res.FailedChecks())
		return cli.ExitFailure
	}
	logger.Info("Echo cancellation test passed.")
	return cli.ExitOK
}

// printVerdict writes the summary line. A broken stdout never changes the
// exit code of a finished run.
func printVerdict(w io.Writer, line string) {
	defer func() { _ = recover() }()
	_, _ = io.WriteString(w, line)
}
