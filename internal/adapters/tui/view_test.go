package tui_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/adapters/tui"
)

func TestView_Initializing(t *testing.T) {
	m := tui.NewModel(io.Discard)
	assert.Equal(t, "Initializing...", m.View())
}

func TestView_ListAndLogs(t *testing.T) {
	m := newModel(t)
	update(t, m, tui.MsgPackageStart{SpanID: "s1", Name: "core", StartTime: t0})
	update(t, m, tui.MsgPackageLog{SpanID: "s1", Data: []byte("-- Build files have been written\n")})

	view := m.View()

	assert.Contains(t, view, "PACKAGES")
	assert.Contains(t, view, "○ cli")
	assert.Contains(t, view, "● core 2s")
	assert.Contains(t, view, "LOGS: core (Following)")
	assert.Contains(t, view, "-- Build files have been written")
}

func TestView_FailedHeader(t *testing.T) {
	m := newModel(t)
	update(t, m, tui.MsgPackageStart{SpanID: "s1", Name: "core", StartTime: t0})
	update(t, m, tui.MsgPackageComplete{SpanID: "s1", EndTime: t0.Add(300 * time.Millisecond), Err: errors.New("boom")})

	view := m.View()

	assert.Contains(t, view, "FAILED: core")
	assert.Contains(t, view, "✗ core 300ms")
}

func TestView_LongLinesAreTruncated(t *testing.T) {
	m := newModel(t)
	update(t, m, tui.MsgPackageStart{SpanID: "s1", Name: "core", StartTime: t0})
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	update(t, m, tui.MsgPackageLog{SpanID: "s1", Data: append(long, '\n')})

	assert.Contains(t, m.View(), "…")
	assert.NotContains(t, m.View(), string(long))
}

func TestView_Summary(t *testing.T) {
	m := newModel(t)
	update(t, m, tui.MsgPackageStart{SpanID: "s1", Name: "core", StartTime: t0})
	update(t, m, tui.MsgPackageComplete{SpanID: "s1", EndTime: t0.Add(1500 * time.Millisecond)})
	update(t, m, tui.MsgPackageStart{SpanID: "s2", Name: "util", StartTime: t0})
	update(t, m, tui.MsgPackageComplete{SpanID: "s2", EndTime: t0.Add(time.Millisecond), Cached: true})
	update(t, m, tui.MsgPackageStart{SpanID: "s3", Name: "cli", StartTime: t0})
	update(t, m, tui.MsgPackageComplete{SpanID: "s3", EndTime: t0.Add(time.Second), Err: errors.New("boom")})
	update(t, m, tui.MsgDone{})

	assert.Equal(t,
		"✓ core 1.5s\n"+
			"~ util\n"+
			"✗ cli 1s: boom\n"+
			"1 built, 1 cached, 1 failed\n",
		m.View())
}
