package domain

import (
	"maps"
	"slices"
)

// FileSet is a set of absolute file paths.
type FileSet map[string]struct{}

// NewFileSet creates a FileSet from the given paths.
func NewFileSet(paths ...string) FileSet {
	s := make(FileSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Union returns a new set containing the paths of both sets.
// Neither receiver nor argument is modified.
func (s FileSet) Union(other FileSet) FileSet {
	res := make(FileSet, len(s)+len(other))
	maps.Copy(res, s)
	maps.Copy(res, other)
	return res
}

// Contains reports whether path is in the set.
func (s FileSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Sorted returns the paths in lexical order.
func (s FileSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
