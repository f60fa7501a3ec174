package linear_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/linear"
	"go.trai.ch/zerr"
)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_PackageLifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnPlanEmit([]string{"core", "cli"}, map[string][]string{"cli": {"core"}}, []string{"cli"})

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.OnPackageStart("span1", "", "core", start)
	r.OnPackageLog("span1", []byte("-- Configuring done\n"))
	r.OnPackageLog("span1", []byte("[1/2] Building CXX object core.cpp.o\n"))
	r.OnPackageComplete("span1", start.Add(1500*time.Millisecond), false, nil)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	assert.Equal(t,
		"[core] -- Configuring done\n"+
			"[core] [1/2] Building CXX object core.cpp.o\n",
		stdout.String())
	assert.Equal(t,
		"Planning to build 2 package(s) for cli: core → cli\n"+
			"[core] Building...\n"+
			"[core] ✓ Built in 1.5s\n",
		stderr.String())
}

func TestRenderer_PlanWithoutTargets(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnPlanEmit([]string{"core"}, nil, nil)

	assert.Equal(t, "Planning to build 1 package(s) for all packages: core\n", stderr.String())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	start := time.Now()
	r.OnPackageStart("span1", "", "core", start)

	r.OnPackageLog("span1", []byte("partial"))
	assert.Empty(t, stdout.String(), "partial lines wait for a newline")

	r.OnPackageLog("span1", []byte(" line\r\nnext"))
	assert.Equal(t, "[core] partial line\n", stdout.String())

	r.OnPackageComplete("span1", start, false, nil)
	assert.Equal(t, "[core] partial line\n[core] next\n", stdout.String())
}

func TestRenderer_Cached(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	start := time.Now()
	r.OnPackageStart("span1", "", "core", start)
	r.OnPackageComplete("span1", start.Add(time.Millisecond), true, nil)

	assert.Empty(t, stdout.String())
	assert.Equal(t, "[core] Building...\n[core] ~ Up to date\n", stderr.String())
}

func TestRenderer_Failure(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	start := time.Now()
	r.OnPackageStart("span1", "", "cli", start)
	r.OnPackageLog("span1", []byte("main.cpp:3: error: expected ';'\n"))
	r.OnPackageComplete("span1", start.Add(250*time.Millisecond), false, zerr.New("build failed"))

	assert.Equal(t, "[cli] main.cpp:3: error: expected ';'\n", stdout.String())
	assert.Contains(t, stderr.String(), "[cli] ✗ Failed after 250ms: build failed\n")
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnPackageLog("missing", []byte("ignored\n"))
	r.OnPackageComplete("missing", time.Now(), false, nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_StopFlushesPartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnPackageStart("span1", "", "core", time.Now())
	r.OnPackageLog("span1", []byte("interrupted"))
	require.NoError(t, r.Stop())

	assert.Equal(t, "[core] interrupted\n", stdout.String())
}

func TestRenderer_ConcurrentPackages(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	start := time.Now()
	r.OnPackageStart("span1", "", "core", start)
	r.OnPackageStart("span2", "", "util", start)

	var wg sync.WaitGroup
	for _, span := range []string{"span1", "span2"} {
		wg.Go(func() {
			for range 50 {
				r.OnPackageLog(span, []byte("line\n"))
			}
		})
	}
	wg.Wait()

	counts := map[string]int{}
	for line := range strings.SplitSeq(strings.TrimSpace(stdout.String()), "\n") {
		counts[line]++
	}
	assert.Equal(t, map[string]int{"[core] line": 50, "[util] line": 50}, counts)
}
