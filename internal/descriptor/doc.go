// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package descriptor provides the Go representation of a module descriptor:
// the declarative `module` block that tells the build orchestrator what a
// module is called, what kind of artifact it produces, which source files it
// compiles and which other modules it needs.
//
// Descriptors are written in HCL, one or more `module` blocks per file:
//
//	module "audio_algo_aec_test" {
//	  kind        = "BINARY"
//	  description = "audio_algo_aec_test: test for LMS ALGO"
//	  sources     = ["test/main.go", "test/debug.go"]
//	  depends     = ["audio_algo_aec"]
//	}
//
// Attributes are evaluated against the build Target, exposed as the `target`
// object (`target.os`, `target.arch`, `target.mode`), together with a small set
// of collection and string functions. A descriptor can therefore pick its
// sources per platform without any code.
//
// Loading is a pure function of the files and the target: the same input always
// produces the same descriptors in the same order. Dependency names stay plain
// strings here; turning them into handles is the job of the build graph.
package descriptor
