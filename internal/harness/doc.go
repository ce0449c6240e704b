// Package harness compiles a fixture package and renders the result as a
// snapshot.
//
// A fixture is a directory holding a gleam.toml manifest, a src/ tree and
// an optional test/ tree. Compiling it:
//
//  1. Loads the manifest and every src and test source file
//  2. Resolves the target codegen configuration from the manifest
//  3. Builds a package rooted at "/" that writes into a fresh in-memory
//     filesystem under /out/lib/the_package
//  4. Runs the compiler in dev mode with an empty module cache
//  5. Captures either the written files and warnings, or the compile error
//
// Every run is isolated. Nothing is shared between runs except the compiler
// itself, so compiling the same fixture twice renders the same bytes.
//
// # Errors
//
// Problems with the fixture itself (missing manifest, unreadable source,
// unknown target) are returned as Go errors. Compile errors are not: they
// are part of the snapshot and rendered through their pretty string.
//
// # Usage
//
//	text, err := harness.Prepare("testdata/cases/erlang_single_module")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	snapshot.AssertGolden(t, "erlang_single_module", text)
package harness
