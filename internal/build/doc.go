// Package build defines the contract between the snapshot harness and a
// package compiler.
//
// The harness never looks inside a compiler. It assembles a Package (the
// manifest, the sources, a resolved target configuration, a run-scoped id
// generator and a filesystem to write into), hands it to a Compiler, and
// receives either a Result carrying warnings or an error. Errors that
// implement PrettyError are rendered with their own presentation.
package build
