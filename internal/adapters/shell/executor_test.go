package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/shell"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func TestExecutor_Execute_Output(t *testing.T) {
	skipWithoutShell(t)

	var stdout bytes.Buffer
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo configure; printf part1; sleep 0.1; echo part2"},
		Dir:  t.TempDir(),
	}, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "configure")
	assert.Contains(t, stdout.String(), "part1part2")
}

func TestExecutor_Execute_WorkingDir(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o600))

	var stdout bytes.Buffer
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"cat", "marker.txt"},
		Dir:  dir,
	}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "here")
}

func TestExecutor_Execute_Env(t *testing.T) {
	skipWithoutShell(t)
	t.Setenv("RIG_SECRET_TOKEN", "leaked")

	var stdout bytes.Buffer
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "echo \"[$RIG_BUILD_VAR][$RIG_SECRET_TOKEN]\""},
		Env:  []string{"RIG_BUILD_VAR=release"},
	}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "[release][]")
}

func TestExecutor_Execute_PathFromCommandEnv(t *testing.T) {
	skipWithoutShell(t)

	binDir := t.TempDir()
	//nolint:gosec // test executable
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "fake-cmake"), []byte("#!/bin/sh\necho fake cmake \"$@\"\n"), 0o700))

	var stdout bytes.Buffer
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"fake-cmake", "--build", "out"},
		Env:  []string{"PATH=" + binDir},
	}, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "fake cmake --build out")
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	skipWithoutShell(t)

	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"sh", "-c", "exit 42"},
	}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCommandFailed.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_NotFound(t *testing.T) {
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{
		Args: []string{"rig-nonexistent-command-xyz"},
	}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCommandStartFailed.Error())
}

func TestExecutor_Execute_Empty(t *testing.T) {
	err := shell.NewExecutor().Execute(context.Background(), ports.Command{}, io.Discard, io.Discard)
	assert.ErrorContains(t, err, domain.ErrEmptyCommand.Error())
}

func TestExecutor_Execute_Cancel(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := shell.NewExecutor().Execute(ctx, ports.Command{
		Args: []string{"sleep", "5"},
	}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
