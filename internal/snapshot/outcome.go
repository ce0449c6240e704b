package snapshot

import (
	"path"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/roach88/pkgsnap/internal/build"
	"github.com/roach88/pkgsnap/internal/vfs"
)

// PreludePlaceholder replaces the content of runtime prelude files.
const PreludePlaceholder = "<prelude>"

// preludeFiles are the base names whose content is never snapshotted.
var preludeFiles = map[string]bool{
	"gleam.mjs":  true,
	"gleam.d.ts": true,
}

var dumper = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Outcome is the result of compiling one fixture: either the files written
// plus warnings, or the compilation error.
type Outcome struct {
	files    map[string]vfs.Content
	warnings []build.Warning
	err      error
}

// Success builds a successful outcome. files is keyed by simulated path.
func Success(files map[string]vfs.Content, warnings []build.Warning) Outcome {
	return Outcome{files: files, warnings: warnings}
}

// Failure builds a failed outcome from a compilation error.
func Failure(err error) Outcome {
	return Outcome{err: err}
}

// IsFailure reports whether compilation failed.
func (o Outcome) IsFailure() bool { return o.err != nil }

// Err returns the compilation error of a failed outcome, or nil.
func (o Outcome) Err() error { return o.err }

// Files returns the written files keyed by simulated path.
func (o Outcome) Files() map[string]vfs.Content { return o.files }

// Warnings returns the warnings in the order the compiler reported them.
func (o Outcome) Warnings() []build.Warning { return o.warnings }

// Paths returns the generated file paths in render order.
func (o Outcome) Paths() []string {
	paths := make([]string, 0, len(o.files))
	for p := range o.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Render returns the snapshot text for the outcome.
func (o Outcome) Render() string {
	if o.err != nil {
		return build.PrettyString(o.err)
	}

	var b strings.Builder
	for _, p := range o.Paths() {
		b.WriteString("//// ")
		b.WriteString(p)
		b.WriteString("\n")
		b.WriteString(renderContent(p, o.files[p]))
		b.WriteString("\n\n")
	}
	for _, w := range o.warnings {
		b.WriteString("//// Warning\n")
		b.WriteString(debug(w))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderContent(p string, c vfs.Content) string {
	switch {
	case IsPrelude(p):
		return PreludePlaceholder
	case c.IsBinary():
		return debug(c.Bytes())
	default:
		return c.Text()
	}
}

// IsPrelude reports whether the final element of p names a prelude file.
func IsPrelude(p string) bool {
	return preludeFiles[path.Base(p)]
}

func debug(v any) string {
	return strings.TrimSuffix(dumper.Sdump(v), "\n")
}
