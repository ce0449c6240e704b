package build

import "sort"

// Journal records every path a compiler writes during a run.
type Journal struct {
	paths map[string]struct{}
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{paths: make(map[string]struct{})}
}

// Record adds a path. Nil journals ignore writes, so compilers can record
// unconditionally.
func (j *Journal) Record(path string) {
	if j == nil {
		return
	}
	j.paths[path] = struct{}{}
}

// Len returns the number of distinct recorded paths.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	return len(j.paths)
}

// Paths returns the recorded paths, sorted.
func (j *Journal) Paths() []string {
	if j == nil {
		return nil
	}
	out := make([]string, 0, len(j.paths))
	for p := range j.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
