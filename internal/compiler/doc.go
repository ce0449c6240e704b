// Package compiler is a small deterministic package compiler used to drive
// the snapshot harness end to end.
//
// It is a stand-in for a real compiler, not an implementation of the
// language. Source files are read line by line and only a handful of forms
// are recognised:
//
//	import one/two
//	import one/two as alias
//	pub fn name(a, b) { ... }
//	fn name() { ... }
//	alias.name(...)   qualified call into an imported module
//	todo              unfinished code
//
// From those it checks that imports resolve, that application modules do
// not import test modules, that imports do not form a cycle and that
// qualified calls name a public function of the imported module. It then
// writes erlang or javascript output into the package's FileWriter.
//
// Output is a pure function of the package: the same sources and options
// always produce byte-identical files, warnings and errors.
package compiler
