package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/telemetry"
)

type flushRecorder struct {
	mu      sync.Mutex
	batches []string
}

func (r *flushRecorder) onFlush(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, string(data))
}

func (r *flushRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.batches...)
}

func TestBatcher_SizeLimit(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewBatcher(8, time.Hour, rec.onFlush)

	_, err := b.Write([]byte("-- conf"))
	require.NoError(t, err)
	assert.Empty(t, rec.get())

	_, err = b.Write([]byte("iguring\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"-- configuring\n"}, rec.get())

	require.NoError(t, b.Close())
}

func TestBatcher_TimeLimit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &flushRecorder{}
		b := telemetry.NewBatcher(0, 50*time.Millisecond, rec.onFlush)

		_, err := b.Write([]byte("[1/4] Building CXX object"))
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, rec.get())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"[1/4] Building CXX object"}, rec.get())

		require.NoError(t, b.Close())
	})
}

func TestBatcher_Close(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewBatcher(0, time.Hour, rec.onFlush)

	_, _ = b.Write([]byte("a"))
	_, _ = b.Write([]byte("b"))
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"ab"}, rec.get())

	_, err := b.Write([]byte("late"))
	require.Error(t, err)

	require.NoError(t, b.Close(), "closing twice is fine")
	assert.Len(t, rec.get(), 1)
}

func TestBatcher_FlushEmpty(t *testing.T) {
	rec := &flushRecorder{}
	b := telemetry.NewBatcher(0, 0, rec.onFlush)
	b.Flush()
	require.NoError(t, b.Close())
	assert.Empty(t, rec.get())
}
