// Package debug is the diagnostic helper of the test binary. It builds the
// leveled slog logger every component writes to, carries it through
// context.Context, and guarantees that logging can never fail a run: oversized
// or malformed messages are sanitised and write errors are swallowed.
package debug
