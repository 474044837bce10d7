package tracer

import "context"

// NoopTracer discards every span. Services fall back to it when no tracer is configured.
type NoopTracer struct{}

// NewNoop creates a new no-op tracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Start returns the context unchanged and a span that ignores all calls.
func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                     {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) AddEvent(string, ...Attribute) {}

// OrNoop returns t, or a NoopTracer when t is nil.
func OrNoop(t Tracer) Tracer {
	if t == nil {
		return NewNoop()
	}
	return t
}

var (
	_ Tracer = (*NoopTracer)(nil)
	_ Span   = noopSpan{}
)
