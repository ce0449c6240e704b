// Package vfs provides the in-memory filesystem that compilers write into
// during a snapshot run.
//
// A FileSystem is owned by exactly one run. Nothing it stores ever reaches
// the real filesystem, and separate instances share no state, so two runs
// over the same fixture cannot observe each other's output.
//
// Entries are Content values: either text or binary. The discriminant is
// kept alongside the bytes because snapshot rendering depends on it.
package vfs
