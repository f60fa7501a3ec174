package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, ""},
		{slog.LevelInfo, "msg\n"},
		{slog.LevelWarn, "! msg\n"},
		{slog.LevelError, "✗ msg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(logger.NewPrettyHandler(&buf, nil)).Log(context.Background(), tt.level, "msg")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	h := logger.NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	lg := slog.New(h).With("package", "core").WithGroup("layout")

	lg.Debug("resolved", "build_type", "Release")

	assert.Equal(t, "resolved layout.package=core layout.build_type=Release\n", buf.String())
}

func TestPrettyHandler_WithAttrsDoesNotShare(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	base := slog.New(logger.NewPrettyHandler(&buf, nil))
	a := base.With("a", 1)
	_ = base.With("b", 2)

	a.Info("x")
	assert.Equal(t, "x a=1\n", buf.String())
}
