package domain

import "path/filepath"

const (
	// RigDirName is the name of the internal workspace directory.
	RigDirName = ".rig"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// DescriptorFileName is the name of the package descriptor file.
	DescriptorFileName = "rig.yaml"

	// BuildDirPrefix prefixes the lowercased build type in build directory names.
	BuildDirPrefix = "cmake-build-"

	// GeneratorsDirName is the subdirectory of the build directory holding generated toolchain files.
	GeneratorsDirName = "conan"

	// ToolchainFileName is the toolchain file written into the generators directory.
	ToolchainFileName = "conan_toolchain.cmake"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout is the triple of directories resolved for one package and build type.
// It is derived on every invocation and never persisted.
type Layout struct {
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
}

// ToolchainFile returns the path of the generated toolchain file.
func (l Layout) ToolchainFile() string {
	return filepath.Join(l.GeneratorsDir, ToolchainFileName)
}

// BuildDirName returns "cmake-build-<token>" for the given build type.
func BuildDirName(bt BuildType) string {
	return BuildDirPrefix + bt.Token()
}

// DefaultRigPath returns the workspace metadata directory under root.
func DefaultRigPath(root string) string {
	return filepath.Join(root, RigDirName)
}

// DefaultStorePath returns the build info store directory inside the
// workspace metadata directory.
func DefaultStorePath(root string) string {
	return filepath.Join(DefaultRigPath(root), StoreDirName)
}
