// Package app contains the build orchestrator. It loads module descriptors,
// resolves them into a dependency graph, compiles the sources of a target's
// dependency closure against the registered source units, links them into a
// Binary and runs it. It is decoupled from any specific entrypoint like a CLI.
package app
