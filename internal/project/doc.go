// Package project reads fixture packages from disk: the gleam.toml manifest
// and the source files under src/ and test/.
//
// Everything here runs before compilation. Any failure is a setup fault
// that means the fixture itself is broken, so errors are returned to the
// caller rather than tolerated; there is no partial loading.
package project
