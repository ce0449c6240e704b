// Package testutil holds helpers for building fixture packages in tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// FixtureRoot is where MemFixture places the package.
const FixtureRoot = "/fixture"

// Fixture maps package-relative slash paths to file contents.
type Fixture map[string]string

// WriteFixture writes every file of the fixture under root.
func WriteFixture(t testing.TB, fsys afero.Fs, root string, files Fixture) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

// MemFixture writes the fixture into a fresh in-memory filesystem and
// returns it with the package root.
func MemFixture(t testing.TB, files Fixture) (afero.Fs, string) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	WriteFixture(t, fsys, FixtureRoot, files)
	return fsys, FixtureRoot
}

// Manifest renders a minimal gleam.toml. Extra lines are appended verbatim,
// so sections such as "[javascript]" can be added.
func Manifest(name, target string, extra ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name = %q\n", name)
	if target != "" {
		fmt.Fprintf(&b, "target = %q\n", target)
	}
	for _, line := range extra {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
