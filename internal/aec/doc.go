// Package aec provides the adaptive echo cancellers exercised by the
// audio_algo_aec_test binary: a plain Least Mean Squares (LMS) filter and a
// power-normalised variant (NLMS).
//
// Both cancellers consume the far-end (feedback) signal that was played out
// and the near-end (microphone) signal that captured its echo, and produce
// the residual: microphone minus the estimated echo. Filter state persists
// across calls, so a stream may be split into blocks of any size.
//
// Usage:
//
//	algo := aec.NewLms()
//	_ = algo.SetFilterSize(512)
//	for each block {
//		if err := algo.Process(out, feedback, mic); err != nil { ... }
//	}
//	coefficients := algo.Filter()
package aec
