package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/domain"
)

func TestResolver_ResolveSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"CMakeLists.txt":              "",
		"README.md":                   "",
		"src/main.cpp":                "",
		"src/detail/parse.cpp":        "",
		"cmake-build-release/out.bin": "",
	})
	resolver := fs.NewResolver(fs.NewWalker())

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "file and directory glob",
			patterns: []string{"CMakeLists.txt", "src/*"},
			want:     []string{"CMakeLists.txt", "src/detail/parse.cpp", "src/main.cpp"},
		},
		{
			name:     "overlapping patterns",
			patterns: []string{"src/*", "src/main.cpp"},
			want:     []string{"src/detail/parse.cpp", "src/main.cpp"},
		},
		{
			name:     "extension glob",
			patterns: []string{"*.md"},
			want:     []string{"README.md"},
		},
		{
			name:     "leading dot slash",
			patterns: []string{"./CMakeLists.txt"},
			want:     []string{"CMakeLists.txt"},
		},
		{
			name:     "no match",
			patterns: []string{"*.java"},
			want:     nil,
		},
		{
			name:     "no patterns",
			patterns: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolver.ResolveSources(dir, tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := fs.NewResolver(fs.NewWalker()).ResolveSources(t.TempDir(), []string{"src/[a"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidSourcePattern.Error())
}
