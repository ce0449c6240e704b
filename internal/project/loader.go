package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// ReadSources walks root/<origin dir> and returns one Source per .gleam file,
// ordered by path. A missing origin directory yields no sources: plenty of
// fixtures have no test tree.
func ReadSources(fsys afero.Fs, root string, origin Origin) ([]Source, error) {
	dir := filepath.Join(root, origin.Dir())

	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}
	if !exists {
		return []Source{}, nil
	}

	sources := []Source{}
	err = afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if info.IsDir() || filepath.Ext(path) != SourceExtension {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		name, err := ModuleName(rel, origin)
		if err != nil {
			return err
		}
		code, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		sources = append(sources, Source{
			Code:   string(code),
			Origin: origin,
			Path:   filepath.ToSlash(rel),
			Name:   name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

// ReadPackageSources returns the src sources followed by the test sources.
func ReadPackageSources(fsys afero.Fs, root string) ([]Source, error) {
	src, err := ReadSources(fsys, root, OriginSrc)
	if err != nil {
		return nil, err
	}
	test, err := ReadSources(fsys, root, OriginTest)
	if err != nil {
		return nil, err
	}
	return append(src, test...), nil
}
