package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/logger"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing uncolored output into a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("resolved 3 packages")
	lg.Warn("rig.yaml missing in package docs, skipping")

	assert.Equal(t,
		"resolved 3 packages\n! rig.yaml missing in package docs, skipping\n",
		buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  os.ErrPermission,
			want: "✗ Error: permission denied\n",
		},
		{
			name: "multiline plain error",
			err:  errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"),
			want: "✗ Error: yaml: unmarshal errors:\n         line 3: cannot unmarshal\n",
		},
		{
			name: "zerr chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("exit status 1"), "cmake --build failed"), "build execution failed"),
			want: "✗ Error: build execution failed\n" +
				"\n" +
				"  Caused by:\n" +
				"    → cmake --build failed\n" +
				"    → exit status 1\n",
		},
		{
			name: "stdlib chain is not split",
			err:  fmt.Errorf("outer: %w", errors.New("inner")),
			want: "✗ Error: outer: inner\n",
		},
		{
			name: "metadata sorted by key",
			err: zerr.With(zerr.With(domain.ErrUnknownBuildType, "package", "core"),
				"build_type", "Fast"),
			want: "✗ Error: " + domain.ErrUnknownBuildType.Error() + " (build_type=Fast package=core)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_Error_Joined(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.Join(errors.New("core failed"), errors.New("docs failed")))

	assert.Equal(t, "✗ Error: core failed\n✗ Error: docs failed\n", buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("building core")
	lg.Error(zerr.With(domain.ErrBuildFailed, "package", "core"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "building core", info["msg"])

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, domain.ErrBuildFailed.Error(), rec["error"])

	lg.SetJSON(false)
	buf.Reset()
	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_SetOutput_KeepsMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Warn("careful")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestCollectErrorEntries(t *testing.T) {
	t.Run("metadata on empty wrapper moves to the next message", func(t *testing.T) {
		err := zerr.With(errors.New("exit status 2"), "package", "cli")

		entries := logger.CollectErrorEntries(err)

		require.Len(t, entries, 1)
		assert.Equal(t, "exit status 2", entries[0].Message)
		assert.Equal(t, map[string]any{"package": "cli"}, entries[0].Metadata)
	})

	t.Run("each link keeps its own metadata", func(t *testing.T) {
		inner := zerr.With(zerr.New("configure failed"), "diagnostic", "CMake Error")
		outer := zerr.With(zerr.Wrap(inner, "build execution failed"), "package", "core")

		entries := logger.CollectErrorEntries(outer)

		require.Len(t, entries, 2)
		assert.Equal(t, "build execution failed", entries[0].Message)
		assert.Equal(t, map[string]any{"package": "core"}, entries[0].Metadata)
		assert.Equal(t, "configure failed", entries[1].Message)
		assert.Equal(t, map[string]any{"diagnostic": "CMake Error"}, entries[1].Metadata)
	})
}
