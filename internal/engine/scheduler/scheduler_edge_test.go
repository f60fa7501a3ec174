package scheduler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

// TestScheduler_StoreReadFailure verifies that a failing store read fails the package.
func TestScheduler_StoreReadFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, "/ws", map[string][]string{"A": {}})
		s, m := setupSchedulerTest(t)

		m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("input_hash", nil).AnyTimes()
		expectedErr := errors.New("store read failed")
		m.store.EXPECT().Get("/ws", "A", domain.BuildTypeRelease).Return(nil, expectedErr).Times(1)

		err := s.Run(context.Background(), g, scheduler.Request{Settings: release, Parallelism: 1})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())
		assert.Equal(t, domain.StateFailed, s.State("A"))
	})
}

func TestScheduler_HashFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, "/ws", map[string][]string{"A": {}})
		s, m := setupSchedulerTest(t)

		m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("", errors.New("unreadable")).Times(1)

		err := s.Run(context.Background(), g, scheduler.Request{Settings: release})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInputHashComputationFailed.Error())
	})
}

func TestScheduler_CacheHit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		g := createGraphHelper(t, root, map[string][]string{"app": {"lib"}})
		s, m := setupSchedulerTest(t)

		require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "cmake-build-release"), domain.DirPerm))

		m.hasher.EXPECT().ComputeInputHash(matchUnit("lib"), gomock.Len(0)).Return("lib_hash", nil).Times(1)
		m.hasher.EXPECT().ComputeInputHash(matchUnit("app"), []string{"lib=lib_hash"}).Return("app_hash", nil).Times(1)
		m.store.EXPECT().Get(root, "lib", domain.BuildTypeRelease).Return(&domain.BuildInfo{
			Package:   "lib",
			BuildType: domain.BuildTypeRelease,
			InputHash: "lib_hash",
		}, nil).Times(1)
		m.store.EXPECT().Get(root, "app", domain.BuildTypeRelease).Return(&domain.BuildInfo{InputHash: "stale"}, nil).Times(1)

		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("lib"), gomock.Any(), gomock.Any()).Times(0)
		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("app"), gomock.Any(), gomock.Any()).Return(nil).Times(1)
		m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
			assert.Equal(t, "app", info.Package)
			assert.Equal(t, "app_hash", info.InputHash)
			assert.Equal(t, domain.BuildTypeRelease, info.BuildType)
			return nil
		}).Times(1)

		require.NoError(t, s.Run(context.Background(), g, scheduler.Request{Settings: release}))
		assert.Equal(t, domain.StateCached, s.State("lib"))
		assert.Equal(t, domain.StateBuilt, s.State("app"))
	})
}

// TestScheduler_GeneratorChangeRebuilds verifies that switching the CMake
// generator alone invalidates the recorded build.
func TestScheduler_GeneratorChangeRebuilds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		g := createGraphHelper(t, root, map[string][]string{"lib": {}})
		require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "cmake-build-release"), domain.DirPerm))

		_, m := setupSchedulerTest(t)
		hasher := fs.NewHasher(fs.NewResolver(fs.NewWalker()))
		s := scheduler.NewScheduler(m.invoker, m.store, hasher, m.tracer, m.logger)

		recorded := map[string]domain.BuildInfo{}
		m.store.EXPECT().Get(root, "lib", domain.BuildTypeRelease).DoAndReturn(
			func(_, name string, _ domain.BuildType) (*domain.BuildInfo, error) {
				info, ok := recorded[name]
				if !ok {
					return nil, nil
				}
				return &info, nil
			},
		).Times(3)
		m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
			recorded[info.Package] = info
			return nil
		}).Times(2)

		var generators []string
		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("lib"), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, unit domain.BuildUnit, _, _ any) error {
				generators = append(generators, unit.Generator)
				return nil
			},
		).Times(2)

		ninja := scheduler.Request{Settings: release, Generator: "Ninja", Program: "cmake"}
		require.NoError(t, s.Run(context.Background(), g, ninja))
		assert.Equal(t, domain.StateBuilt, s.State("lib"))

		require.NoError(t, s.Run(context.Background(), g, ninja))
		assert.Equal(t, domain.StateCached, s.State("lib"))

		makefiles := scheduler.Request{Settings: release, Generator: "Unix Makefiles", Program: "cmake"}
		require.NoError(t, s.Run(context.Background(), g, makefiles))
		assert.Equal(t, domain.StateBuilt, s.State("lib"))

		assert.Equal(t, []string{"Ninja", "Unix Makefiles"}, generators)
	})
}

// TestScheduler_CacheHitMissingBuildDir verifies that a deleted build directory forces a rebuild.
func TestScheduler_CacheHitMissingBuildDir(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		g := createGraphHelper(t, root, map[string][]string{"lib": {}})
		s, m := setupSchedulerTest(t)

		m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("lib_hash", nil).Times(1)
		m.store.EXPECT().Get(root, "lib", domain.BuildTypeRelease).Return(&domain.BuildInfo{InputHash: "lib_hash"}, nil).Times(1)
		m.store.EXPECT().Put(root, gomock.Any()).Return(nil).Times(1)
		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("lib"), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		require.NoError(t, s.Run(context.Background(), g, scheduler.Request{Settings: release}))
		assert.Equal(t, domain.StateBuilt, s.State("lib"))
	})
}

func TestScheduler_NoCache(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, "/ws", map[string][]string{"A": {}})
		s, m := setupSchedulerTest(t)

		m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("hash", nil).Times(1)
		m.store.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		m.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("A"), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		require.NoError(t, s.Run(context.Background(), g, scheduler.Request{Settings: release, NoCache: true}))
	})
}

// TestScheduler_StoreWriteFailure verifies that failing to record a build only warns.
func TestScheduler_StoreWriteFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, "/ws", map[string][]string{"A": {}})
		s, m := setupSchedulerTest(t)

		m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("hash", nil).AnyTimes()
		m.store.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(1)
		m.invoker.EXPECT().Invoke(gomock.Any(), matchUnit("A"), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		require.NoError(t, s.Run(context.Background(), g, scheduler.Request{Settings: release}))
		assert.Equal(t, domain.StateBuilt, s.State("A"))
	})
}

// TestScheduler_ConflictingOptions verifies that option conflicts abort before any build.
func TestScheduler_ConflictingOptions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := domain.NewGraph()
		g.SetRoot("/ws")
		rootDesc, err := domain.NewDescriptor(domain.DescriptorSpec{
			Version:        "0.1",
			Dir:            "/ws",
			Requires:       []string{"core/0.1"},
			DefaultOptions: []domain.OptionRule{{Selector: "*", Option: "shared", Value: "True"}},
		})
		require.NoError(t, err)
		coreDesc, err := domain.NewDescriptor(domain.DescriptorSpec{
			Name:           "core",
			Version:        "0.1",
			Dir:            "/ws/core",
			DefaultOptions: []domain.OptionRule{{Selector: "core", Option: "shared", Value: "False"}},
		})
		require.NoError(t, err)
		require.NoError(t, g.AddPackage(rootDesc))
		require.NoError(t, g.AddPackage(coreDesc))

		s, m := setupSchedulerTest(t)
		m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err = s.Run(context.Background(), g, scheduler.Request{Settings: release})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrConflictingOption.Error())
	})
}

// TestScheduler_UnknownBuildType verifies that an unset build type fails before any build.
func TestScheduler_UnknownBuildType(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		g := createGraphHelper(t, root, map[string][]string{"A": {"B"}})
		s, m := setupSchedulerTest(t)
		m.invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := s.Run(context.Background(), g, scheduler.Request{Settings: domain.Settings{OS: "Linux"}})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrUnknownBuildType.Error())
		assert.Equal(t, domain.StateFailed, s.State("A"))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestScheduler_ZeroPackageGraph(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := domain.NewGraph()
		g.SetRoot("/ws")
		s, _ := setupSchedulerTest(t)

		require.NoError(t, s.Run(context.Background(), g, scheduler.Request{Settings: release}))
	})
}
