// Package app implements the application layer for rig.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rig/internal/adapters/cmake"
	"go.trai.ch/rig/internal/adapters/detector"
	"go.trai.ch/rig/internal/adapters/linear"
	"go.trai.ch/rig/internal/adapters/telemetry"
	"go.trai.ch/rig/internal/adapters/tui"
	"go.trai.ch/rig/internal/adapters/watcher"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatcherFactory creates the file watcher used by Watch.
type WatcherFactory func() (ports.Watcher, error)

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	profileLoader ports.ProfileLoader
	executor      ports.Executor
	logger        ports.Logger
	store         ports.BuildInfoStore
	hasher        ports.Hasher
	newWatcher    WatcherFactory

	workDir        string
	stdout         io.Writer
	stderr         io.Writer
	cmakeProgram   string
	debounceWindow time.Duration
	teaOptions     []tea.ProgramOption
	disableTick    bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	profiles ports.ProfileLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	newWatcher WatcherFactory,
) *App {
	return &App{
		configLoader:   loader,
		profileLoader:  profiles,
		executor:       executor,
		logger:         log,
		store:          store,
		hasher:         hasher,
		newWatcher:     newWatcher,
		workDir:        ".",
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithWorkDir sets the directory the workspace is discovered from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithOutput redirects build output (stdout) and progress (stderr).
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithCMakeProgram overrides the cmake executable.
func (a *App) WithCMakeProgram(program string) *App {
	a.cmakeProgram = program
	return a
}

// WithDebounceWindow sets how long Watch waits for changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI tick loop.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// SettingsOptions select the environment configuration of a run.
type SettingsOptions struct {
	// Profile is an optional profile file.
	Profile string
	// Overrides are "key=value" settings applied on top of the profile.
	Overrides []string
}

// BuildOptions configure Build and Watch.
type BuildOptions struct {
	SettingsOptions
	Generator   string
	Parallelism int
	NoCache     bool
	OutputMode  string
	CI          bool
}

// loadGraph loads and validates the workspace graph.
func (a *App) loadGraph() (*domain.Graph, error) {
	graph, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

func (a *App) loadSettings(opts SettingsOptions) (domain.Settings, error) {
	settings, err := a.profileLoader.LoadProfile(opts.Profile, opts.Overrides)
	if err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to load settings")
	}
	return settings, nil
}

// Build builds the named packages and their dependencies, or every package
// when targets is empty.
func (a *App) Build(ctx context.Context, targets []string, opts BuildOptions) error {
	graph, err := a.loadGraph()
	if err != nil {
		return err
	}
	settings, err := a.loadSettings(opts.SettingsOptions)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, opts)

	tracer := telemetry.NewOTelTracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	invoker := cmake.NewInvoker(a.executor,
		cmake.WithGenerator(opts.Generator),
		cmake.WithProgram(a.cmakeProgram),
	)
	sched := scheduler.NewScheduler(invoker, a.store, a.hasher, tracer, a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(domain.ErrBuildExecutionFailed, "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		return sched.Run(gctx, graph, scheduler.Request{
			Targets:     targets,
			Settings:    settings,
			Parallelism: opts.Parallelism,
			NoCache:     opts.NoCache,
			Generator:   invoker.Generator(),
			Program:     invoker.Program(),
		})
	})

	return g.Wait()
}

func (a *App) newRenderer(ctx context.Context, opts BuildOptions) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode, opts.CI)
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		teaOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		return tui.NewRenderer(&model, teaOpts...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}
