package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the innermost span.
type ctxState struct {
	tracer Tracer
	span   uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// WithTracer attaches t to ctx. Spans started under the result have no parent.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t})
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

var spanIDs atomic.Uint64

// Span is an open traced operation. The zero Span, and a nil one, ignore
// every call, so callers never check whether tracing is on.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// Start opens a span under the innermost span of ctx. The returned context
// makes the new span the parent of nested work.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	if !st.tracer.Level().Covers(scope) {
		return ctx, &Span{}
	}
	sp := &Span{
		tracer:  st.tracer,
		id:      spanIDs.Add(1),
		parent:  st.span,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	sp.tracer.Emit(&Event{
		Time:   sp.started,
		Kind:   KindBegin,
		Scope:  scope,
		Span:   sp.id,
		Parent: sp.parent,
		Name:   name,
	})
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: st.tracer, span: sp.id}), sp
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// ID is 0 for spans that are not recorded.
func (s *Span) ID() uint64 {
	if !s.live() {
		return 0
	}
	return s.id
}

// Traces reports whether points of scope under s would be written. Used to
// skip building details for node-level points.
func (s *Span) Traces(scope Scope) bool {
	if !s.live() {
		return false
	}
	lvl := s.tracer.Level()
	return lvl > LevelError && lvl.Covers(scope)
}

// Set attaches an attribute reported with the end event.
func (s *Span) Set(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 4)
	}
	s.attrs[key] = value
	return s
}

// End closes the span with outcome as detail and returns its duration.
func (s *Span) End(outcome string) time.Duration {
	return s.finish(outcome, false)
}

// Fail closes the span as failed. Failed ends pass LevelError.
func (s *Span) Fail(outcome string) time.Duration {
	return s.finish(outcome, true)
}

func (s *Span) finish(outcome string, failed bool) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:    now,
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  outcome,
		Failed:  failed,
		Elapsed: elapsed,
		Attrs:   s.attrs,
	})
	return elapsed
}

// Point records an instant event inside s.
func (s *Span) Point(scope Scope, name, detail string) {
	if !s.Traces(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Parent: s.id,
		Name:   name,
		Detail: detail,
	})
}
