package vfs

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"
)

// FileSystem is an in-memory store of (path, Content) pairs backed by an
// afero.MemMapFs.
//
// Paths are absolute, slash separated and simulated: "/out/lib/pkg/a.mjs".
// Writing the same path twice replaces the entry; detecting that is the
// compiler's responsibility.
type FileSystem struct {
	fs     afero.Fs
	binary map[string]bool
}

// New returns an empty filesystem.
func New() *FileSystem {
	return &FileSystem{
		fs:     afero.NewMemMapFs(),
		binary: make(map[string]bool),
	}
}

// WriteText stores a text entry, creating parent directories.
func (f *FileSystem) WriteText(p, text string) error {
	if err := f.write(p, []byte(text)); err != nil {
		return err
	}
	delete(f.binary, clean(p))
	return nil
}

// WriteBinary stores a binary entry, creating parent directories.
func (f *FileSystem) WriteBinary(p string, data []byte) error {
	if err := f.write(p, data); err != nil {
		return err
	}
	f.binary[clean(p)] = true
	return nil
}

func (f *FileSystem) write(p string, data []byte) error {
	p = clean(p)
	if err := f.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", p, err)
	}
	if err := afero.WriteFile(f.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

// ReadFile returns the entry stored at p.
func (f *FileSystem) ReadFile(p string) (Content, error) {
	p = clean(p)
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		return Content{}, fmt.Errorf("reading %s: %w", p, err)
	}
	if f.binary[p] {
		return Binary(data), nil
	}
	return Text(string(data)), nil
}

// Exists reports whether a file entry is stored at p.
func (f *FileSystem) Exists(p string) bool {
	ok, err := afero.Exists(f.fs, clean(p))
	return err == nil && ok
}

// Contents returns every entry written so far, keyed by path.
// The map has no defined iteration order.
func (f *FileSystem) Contents() (map[string]Content, error) {
	files := make(map[string]Content)
	if ok, _ := afero.DirExists(f.fs, "/"); !ok {
		return files, nil
	}
	err := afero.Walk(f.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		c, err := f.ReadFile(p)
		if err != nil {
			return err
		}
		files[clean(p)] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing virtual filesystem: %w", err)
	}
	return files, nil
}

func clean(p string) string {
	return path.Clean("/" + p)
}
