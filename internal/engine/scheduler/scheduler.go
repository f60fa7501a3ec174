package scheduler

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/layout"
	"go.trai.ch/zerr"
)

// Request describes one build run.
type Request struct {
	// Targets are the requested package names. Empty means every package.
	Targets []string

	// Settings is the environment configuration applied to every package.
	Settings domain.Settings

	// Parallelism bounds concurrent builds. Zero or less uses the CPU count.
	Parallelism int

	// NoCache forces every package to build.
	NoCache bool

	// Generator and Program select the CMake generator and executable. Empty
	// values leave the choice to the invoker.
	Generator string
	Program   string
}

// Scheduler manages the build of packages in the dependency graph.
type Scheduler struct {
	invoker ports.BuildInvoker
	store   ports.BuildInfoStore
	hasher  ports.Hasher
	tracer  ports.Tracer
	logger  ports.Logger

	mu     sync.RWMutex
	states map[domain.InternedString]domain.PackageState
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	invoker ports.BuildInvoker,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		invoker: invoker,
		store:   store,
		hasher:  hasher,
		tracer:  tracer,
		logger:  logger,
		states:  make(map[domain.InternedString]domain.PackageState),
	}
}

// State returns the state a package reached in the last run.
func (s *Scheduler) State(name string) domain.PackageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[domain.NewInternedString(name)]
	if !ok {
		return domain.StateDeclared
	}
	return state
}

func (s *Scheduler) initStates(names []domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[domain.InternedString]domain.PackageState, len(names))
	for _, name := range names {
		s.states[name] = domain.StateDeclared
	}
}

// transition moves a package to next. Transitions are validated by the state machine.
func (s *Scheduler) transition(name domain.InternedString, next domain.PackageState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.states[name]
	if state, err := cur.Transition(next); err == nil {
		s.states[name] = state
	}
}

// Run builds the requested packages and their dependencies in dependency order.
// Option conflicts and layout errors abort the run before any build starts and
// are returned as is. A failed package blocks its transitive dependents only;
// unrelated chains continue and every failure is joined under
// domain.ErrBuildExecutionFailed.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, req Request) error {
	if err := graph.Validate(); err != nil {
		return err
	}

	state, err := s.newRunState(ctx, graph, req)
	if err != nil {
		return err
	}

	depMap := make(map[string][]string, len(state.units))
	for _, name := range state.order {
		depMap[name.String()] = domain.Strings(graph.Dependencies(name))
	}
	s.tracer.EmitPlan(ctx, domain.Strings(state.order), depMap, req.Targets)

	return state.runExecutionLoop()
}

type result struct {
	pkg       domain.InternedString
	err       error
	cached    bool
	inputHash string
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	units       map[domain.InternedString]domain.BuildUnit
	order       []domain.InternedString
	hashes      map[domain.InternedString]string
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler
	noCache     bool
}

func (s *Scheduler) newRunState(ctx context.Context, graph *domain.Graph, req Request) (*schedulerRunState, error) {
	selected, err := s.resolvePackagesToBuild(graph, req.Targets)
	if err != nil {
		return nil, err
	}

	// Every package's options are resolved before anything is built.
	options := make(map[domain.InternedString]map[string]string, graph.Count())
	for _, name := range graph.BuildOrder() {
		opts, err := graph.ResolveOptions(name)
		if err != nil {
			return nil, err
		}
		options[name] = opts
	}

	var order []domain.InternedString
	for _, name := range graph.BuildOrder() {
		if selected[name] {
			order = append(order, name)
		}
	}
	s.initStates(order)

	layouts, err := layout.ResolveAll(ctx, graph, req.Settings)
	if err != nil {
		for _, name := range order {
			s.transition(name, domain.StateFailed)
		}
		return nil, err
	}

	units := make(map[domain.InternedString]domain.BuildUnit, len(order))
	inDegree := make(map[domain.InternedString]int, len(order))
	var ready []domain.InternedString
	for _, name := range order {
		desc, _ := graph.Get(name)
		units[name] = domain.BuildUnit{
			Descriptor:        desc,
			Settings:          desc.ApplySettings(req.Settings),
			Layout:            layouts[name.String()],
			Options:           options[name],
			DependencyLayouts: dependencyLayouts(graph, name, layouts),
			Generator:         req.Generator,
			Program:           req.Program,
		}
		s.transition(name, domain.StateLayoutResolved)

		degree := 0
		for _, dep := range graph.Dependencies(name) {
			if selected[dep] {
				degree++
			}
		}
		inDegree[name] = degree
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	return &schedulerRunState{
		graph:       graph,
		inDegree:    inDegree,
		units:       units,
		order:       order,
		hashes:      make(map[domain.InternedString]string, len(order)),
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
		noCache:     req.NoCache,
	}, nil
}

// dependencyLayouts returns the layouts of every transitive dependency of name, in build order.
func dependencyLayouts(graph *domain.Graph, name domain.InternedString, layouts map[string]domain.Layout) []domain.Layout {
	closure, err := graph.Closure([]domain.InternedString{name})
	if err != nil {
		return nil
	}
	var out []domain.Layout
	for _, dep := range graph.BuildOrder() {
		if dep != name && closure[dep] {
			out = append(out, layouts[dep.String()])
		}
	}
	return out
}

func (s *Scheduler) resolvePackagesToBuild(
	graph *domain.Graph,
	targetNames []string,
) (map[domain.InternedString]bool, error) {
	if len(targetNames) == 0 {
		all := make(map[domain.InternedString]bool, graph.Count())
		for _, name := range graph.BuildOrder() {
			all[name] = true
		}
		return all, nil
	}
	return graph.Closure(domain.NewInternedStrings(targetNames))
}

func (state *schedulerRunState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			break
		}

		// Once cancelled, only the results of running builds are awaited.
		done := state.ctx.Done()
		if state.ctx.Err() != nil {
			done = nil
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-done:
		}
	}

	state.markBlocked()
	return state.err()
}

// err joins the package failures under ErrBuildExecutionFailed, plus the
// context error when the run was interrupted.
func (state *schedulerRunState) err() error {
	var err error
	if state.errs != nil {
		err = errors.Join(domain.ErrBuildExecutionFailed, state.errs)
	}
	if ctxErr := state.ctx.Err(); ctxErr != nil {
		err = errors.Join(err, ctxErr)
	}
	return err
}

// markBlocked fails every package that never became ready. The reason is the
// context error when the run was interrupted.
func (state *schedulerRunState) markBlocked() {
	reason := domain.ErrDependencyFailed.Error()
	if ctxErr := state.ctx.Err(); ctxErr != nil {
		reason = ctxErr.Error()
	}
	for _, name := range state.order {
		if !state.s.State(name.String()).IsTerminal() {
			state.s.transition(name, domain.StateFailed)
			state.s.logger.Warn("skipped " + name.String() + ": " + reason)
		}
	}
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++

		unit := state.units[name]
		depHashes := state.dependencyHashes(name)
		go state.buildPackage(unit, depHashes)
	}
}

func (state *schedulerRunState) dependencyHashes(name domain.InternedString) []string {
	deps := state.graph.Dependencies(name)
	hashes := make([]string, 0, len(deps))
	for _, dep := range deps {
		hashes = append(hashes, dep.String()+"="+state.hashes[dep])
	}
	return hashes
}

func (state *schedulerRunState) buildPackage(unit domain.BuildUnit, depHashes []string) {
	name := unit.Descriptor.Name()

	// The span is ended before the result is sent so the renderer sees the
	// completion before the loop can finish.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, name.String(),
			ports.WithAttribute(ports.AttrBuildType, string(unit.Settings.BuildType)),
			ports.WithAttribute(ports.AttrBuildDir, unit.Layout.BuildDir),
		)
		defer span.End()

		cached, hash, err := state.checkCache(unit, depHashes)
		if err != nil {
			span.RecordError(err)
			return result{pkg: name, err: err}
		}
		if cached {
			span.SetAttribute(ports.AttrCached, true)
			return result{pkg: name, cached: true, inputHash: hash}
		}

		err = state.s.invoker.Invoke(ctx, unit, span, span)
		if err != nil {
			span.RecordError(err)
		}
		return result{pkg: name, err: err, inputHash: hash}
	}()

	state.resultsCh <- res
}

// checkCache computes the input hash and reports whether the last recorded build matches it.
func (state *schedulerRunState) checkCache(unit domain.BuildUnit, depHashes []string) (bool, string, error) {
	hash, err := state.s.hasher.ComputeInputHash(unit, depHashes)
	if err != nil {
		return false, "", zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error())
	}
	if state.noCache {
		return false, hash, nil
	}

	info, err := state.s.store.Get(state.graph.Root(), unit.Name(), unit.Settings.BuildType)
	if err != nil {
		return false, hash, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if info == nil || info.InputHash != hash {
		return false, hash, nil
	}

	// A removed build directory invalidates the record.
	if _, err := os.Stat(unit.Layout.BuildDir); err != nil {
		return false, hash, nil
	}
	return true, hash, nil
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	if res.err != nil {
		state.errs = errors.Join(state.errs, zerr.With(res.err, "package", res.pkg.String()))
		state.s.transition(res.pkg, domain.StateFailed)
		return
	}
	state.handleSuccess(res)
}

func (state *schedulerRunState) handleSuccess(res result) {
	state.hashes[res.pkg] = res.inputHash

	if res.cached {
		state.s.transition(res.pkg, domain.StateCached)
	} else {
		state.s.transition(res.pkg, domain.StateBuilt)
		unit := state.units[res.pkg]
		err := state.s.store.Put(state.graph.Root(), domain.BuildInfo{
			Package:   res.pkg.String(),
			BuildType: unit.Settings.BuildType,
			InputHash: res.inputHash,
			Timestamp: time.Now(),
		})
		if err != nil {
			state.s.logger.Warn("failed to record build of " + res.pkg.String() + ": " + err.Error())
		}
	}

	for _, dep := range state.graph.Dependents(res.pkg) {
		if _, ok := state.units[dep]; ok {
			state.inDegree[dep]--
			if state.inDegree[dep] == 0 {
				state.ready = append(state.ready, dep)
			}
		}
	}
}
