// Package fs walks package folders and hashes their exported sources.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
)

// DefaultIgnores are directory names never descended into.
var DefaultIgnores = []string{".git", ".jj", domain.RigDirName, domain.BuildDirPrefix + "*"}

// Walker walks the files that belong to one package folder.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root. Directories whose name matches one of
// ignores are skipped, and so are nested package folders (any directory other
// than root holding its own descriptor file).
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && w.skipDir(path, d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skipDir(path, name string, ignores []string) bool {
	return Ignored(name, ignores) || isPackageDir(path)
}

// Ignored reports whether a directory name matches one of the ignore patterns.
func Ignored(name string, ignores []string) bool {
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

func isPackageDir(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, domain.DescriptorFileName))
	return err == nil && !info.IsDir()
}
