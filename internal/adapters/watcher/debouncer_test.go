package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/watcher"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/ws/core/src/util.cpp")
		d.Add("/ws/core/CMakeLists.txt", "/ws/core/src/util.cpp")
		d.Add("/ws/core/include/core.h")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{
			"/ws/core/CMakeLists.txt",
			"/ws/core/include/core.h",
			"/ws/core/src/util.cpp",
		}}, b.all())
	})
}

func TestDebouncer_AddRestartsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/ws/a.cpp")
		time.Sleep(60 * time.Millisecond)
		d.Add("/ws/b.cpp")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.all(), "second event restarted the window")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"/ws/a.cpp", "/ws/b.cpp"}}, b.all())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Flush()
		assert.Empty(t, b.all(), "nothing pending")

		d.Add("/ws/a.cpp")
		d.Flush()
		require.Equal(t, [][]string{{"/ws/a.cpp"}}, b.all(), "flush is synchronous")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.all(), 1, "the cancelled window does not fire")

		d.Add("/ws/b.cpp")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()
		assert.Equal(t, [][]string{{"/ws/a.cpp"}, {"/ws/b.cpp"}}, b.all())
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/ws/a.cpp")
		d.Stop()

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()
		assert.Empty(t, b.all())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/ws/a.cpp")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("/ws/b.cpp")
		d.Flush()
	})
}
