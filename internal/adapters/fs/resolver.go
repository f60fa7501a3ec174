package fs

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands exports_sources patterns into the files they export.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveSources returns the slash-separated paths, relative to dir, of every file
// exported by patterns. A file is exported when its path or one of its parent
// directories matches a pattern, so "src/*" exports the whole src tree.
// Patterns matching nothing export nothing. The result is sorted.
func (r *Resolver) ResolveSources(dir string, patterns []string) ([]string, error) {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSourcePattern.Error()), "pattern", p)
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	var files []string
	for file := range r.walker.WalkFiles(dir, DefaultIgnores) {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if exported(rel, patterns) {
			files = append(files, rel)
		}
	}
	slices.Sort(files)
	return files, nil
}

func exported(rel string, patterns []string) bool {
	for candidate := rel; candidate != "." && candidate != ""; candidate = path.Dir(candidate) {
		for _, p := range patterns {
			if ok, _ := path.Match(strings.TrimPrefix(p, "./"), candidate); ok {
				return true
			}
		}
	}
	return false
}
