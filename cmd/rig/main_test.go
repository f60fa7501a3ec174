package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	store  *mocks.MockBuildInfoStore
}

func newProvider(t *testing.T) (ComponentProvider, *appMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &appMocks{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		store:  mocks.NewMockBuildInfoStore(ctrl),
	}

	application := app.New(
		m.loader,
		mocks.NewMockProfileLoader(ctrl),
		mocks.NewMockExecutor(ctrl),
		m.logger,
		m.store,
		mocks.NewMockHasher(ctrl),
		func() (ports.Watcher, error) { return mocks.NewMockWatcher(ctrl), nil },
	)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: m.logger,
		}, func() {}, nil
	}
	return provider, m
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider, _ := newProvider(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that command errors are logged and exit with 1.
func TestRun_ExecutionError(t *testing.T) {
	provider, m := newProvider(t)
	dir := t.TempDir()

	m.loader.EXPECT().Load(dir).Return(nil, domain.ErrConfigNotFound)
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"graph"}, new(bytes.Buffer), provider, func(a *app.App) {
		a.WithWorkDir(dir)
	})

	assert.Equal(t, 1, exitCode)
}

// TestRun_CleanUsesOptions verifies that options are applied to the app before execution.
func TestRun_CleanUsesOptions(t *testing.T) {
	provider, m := newProvider(t)
	dir := t.TempDir()

	m.loader.EXPECT().DiscoverRoot(dir).Return(dir, nil)
	m.store.EXPECT().Clear(dir).Return(nil)
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	exitCode := run(context.Background(), []string{"clean"}, new(bytes.Buffer), provider, func(a *app.App) {
		a.WithWorkDir(dir)
	})

	assert.Equal(t, 0, exitCode)
}

// TestRun_UnknownCommand verifies that cobra usage errors are reported through the logger.
func TestRun_UnknownCommand(t *testing.T) {
	provider, m := newProvider(t)
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"deploy"}, new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
}
