package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the read-only view of the disk the loaders work on.
// Paths are absolute.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// Glob returns the files and directories matching pattern.
	Glob(pattern string) ([]string, error)
}

// OSFS implements FileSystem on the real disk.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for path.
func (*OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the file at path.
func (*OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- descriptor and profile paths come from the workspace
	return os.ReadFile(path)
}

// Glob returns the matches of pattern.
func (*OSFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// RootedFS mounts an fs.FS (typically fstest.MapFS) at an absolute root so
// the loaders can be exercised without touching the disk.
type RootedFS struct {
	fsys fs.FS
	root string
}

// NewRootedFS mounts fsys at root.
func NewRootedFS(root string, fsys fs.FS) *RootedFS {
	return &RootedFS{fsys: fsys, root: filepath.Clean(root)}
}

// Stat returns file info for path.
func (r *RootedFS) Stat(path string) (fs.FileInfo, error) {
	rel, err := r.rel("stat", path)
	if err != nil {
		return nil, err
	}
	return fs.Stat(r.fsys, rel)
}

// ReadFile reads the file at path.
func (r *RootedFS) ReadFile(path string) ([]byte, error) {
	rel, err := r.rel("read", path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(r.fsys, rel)
}

// Glob returns the absolute paths matching pattern.
func (r *RootedFS) Glob(pattern string) ([]string, error) {
	rel, err := r.rel("glob", pattern)
	if err != nil {
		return nil, nil
	}
	matches, err := fs.Glob(r.fsys, rel)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(r.root, filepath.FromSlash(m))
	}
	return matches, nil
}

// rel maps an absolute path below root to an fs.FS path.
func (r *RootedFS) rel(op, path string) (string, error) {
	clean := filepath.Clean(path)
	if clean == r.root {
		return ".", nil
	}
	prefix := r.root + string(filepath.Separator)
	if r.root == string(filepath.Separator) {
		prefix = r.root
	}
	if !strings.HasPrefix(clean, prefix) {
		return "", &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return filepath.ToSlash(strings.TrimPrefix(clean, prefix)), nil
}
