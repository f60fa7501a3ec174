package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/core/domain"
)

func detected() domain.Settings {
	return domain.Settings{
		OS:        "Linux",
		Arch:      "x86_64",
		Compiler:  "gcc",
		BuildType: domain.BuildTypeRelease,
	}
}

func TestProfileLoader_LoadProfile(t *testing.T) {
	files := fstest.MapFS{
		"profiles/debug.yaml": {Data: []byte("settings:\n  build_type: Debug\n  compiler: clang\n  compiler.version: \"17\"\n")},
		"profiles/bad.yaml":   {Data: []byte("settings:\n  color: blue\n")},
		"profiles/typo.yaml":  {Data: []byte("settings:\n  build_type: debug\n")},
	}
	loader := config.NewProfileLoader(config.NewRootedFS("/ws", files), detected)

	t.Run("detection only", func(t *testing.T) {
		s, err := loader.LoadProfile("", nil)
		require.NoError(t, err)
		assert.Equal(t, detected(), s)
	})

	t.Run("profile over detection", func(t *testing.T) {
		s, err := loader.LoadProfile("/ws/profiles/debug.yaml", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.BuildTypeDebug, s.BuildType)
		assert.Equal(t, "clang", s.Compiler)
		assert.Equal(t, "17", s.CompilerVersion)
		assert.Equal(t, "Linux", s.OS)
	})

	t.Run("overrides over profile", func(t *testing.T) {
		s, err := loader.LoadProfile("/ws/profiles/debug.yaml", []string{"build_type=RelWithDebInfo"})
		require.NoError(t, err)
		assert.Equal(t, domain.BuildTypeRelWithDebInfo, s.BuildType)
	})

	t.Run("unknown axis", func(t *testing.T) {
		_, err := loader.LoadProfile("/ws/profiles/bad.yaml", nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
	})

	t.Run("unknown build type", func(t *testing.T) {
		_, err := loader.LoadProfile("/ws/profiles/typo.yaml", nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrUnknownBuildType.Error())
	})

	t.Run("empty build type override", func(t *testing.T) {
		_, err := loader.LoadProfile("", []string{"build_type="})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrUnknownBuildType.Error())
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := loader.LoadProfile("/ws/profiles/none.yaml", nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
	})
}
