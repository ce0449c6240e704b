// Package snapshot turns the outcome of one compilation into the plain text
// stored in golden files.
//
// A successful outcome renders every generated file in lexical path order:
//
//	//// /out/lib/the_package/wibble.mjs
//	export function main() {}
//
// followed by one "//// Warning" block per warning. Prelude files are
// replaced by the placeholder "<prelude>" and binary files by a debug dump,
// so snapshots stay readable. A failed outcome renders only the error's
// pretty string.
//
// Rendering is pure: the same outcome always renders to the same bytes.
package snapshot
