package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SourceExtension is the extension of files the loader picks up.
const SourceExtension = ".gleam"

// Origin tells whether a source belongs to the library or its tests.
type Origin int

const (
	OriginSrc Origin = iota
	OriginTest
)

// Dir returns the directory, relative to the package root, holding sources
// of this origin.
func (o Origin) Dir() string {
	if o == OriginTest {
		return "test"
	}
	return "src"
}

func (o Origin) String() string { return o.Dir() }

// Source is one module's source file.
type Source struct {
	Code   string
	Origin Origin
	// Path is relative to the package root, e.g. "src/nested/wibble.gleam".
	Path string
	// Name is the module name, e.g. "nested/wibble".
	Name string
}

// ModuleName derives a module name from a package-relative path by removing
// the origin directory and the extension. Separators become "/" and the
// result is NFC-normalised so fixtures checked out on different platforms
// produce the same name.
func ModuleName(relPath string, origin Origin) (string, error) {
	slashed := filepath.ToSlash(relPath)
	prefix := origin.Dir() + "/"
	if !strings.HasPrefix(slashed, prefix) {
		return "", fmt.Errorf("path %q is not under %s", relPath, origin.Dir())
	}
	name := strings.TrimPrefix(slashed, prefix)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		return "", fmt.Errorf("path %q has no module name", relPath)
	}
	return norm.NFC.String(name), nil
}
