package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor reporting span starts and ends to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge. A nil renderer makes it a no-op.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports a package start.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanFromContext(parent).SpanContext(); p.IsValid() {
		parentID = p.SpanID().String()
	}

	b.renderer.OnPackageStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports a package completion. The cached flag comes from the
// rig.cached attribute and the error from the span status.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	cached := false
	for _, attr := range s.Attributes() {
		if string(attr.Key) == ports.AttrCached {
			cached = attr.Value.AsBool()
		}
	}

	var err error
	if s.Status().Code == codes.Error {
		err = domain.ErrBuildFailed
		if desc := s.Status().Description; desc != "" {
			err = zerr.New(desc)
		}
	}

	b.renderer.OnPackageComplete(sc.SpanID().String(), s.EndTime(), cached, err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
