package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// DiscoverPackages returns every directory under root that holds a
// gleam.toml, relative to root and sorted. Packages do not nest, so the walk
// does not descend into a package once found.
func DiscoverPackages(fsys afero.Fs, root string) ([]string, error) {
	var found []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		ok, err := afero.Exists(fsys, filepath.Join(path, ManifestFile))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		found = append(found, filepath.ToSlash(rel))
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("discovering packages under %s: %w", root, err)
	}
	sort.Strings(found)
	return found, nil
}
