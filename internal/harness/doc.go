// Package harness is the body of the audio_algo_aec_test binary: it feeds a
// far-end/near-end signal pair through an echo canceller in fixed blocks,
// measures the residual and turns the measurements into pass/fail checks.
//
// A run never stops at the first failed check. Every check is evaluated and
// reported; only an error from the canceller or from file I/O aborts it.
package harness
