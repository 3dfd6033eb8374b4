// Package cli parses the command line of the echo canceller test binary,
// validates user input and maps problems to process exit codes. It translates
// flags into a harness.Config plus the logger settings.
package cli
