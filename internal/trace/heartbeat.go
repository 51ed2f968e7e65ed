package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat wraps a tracer and, every interval, emits an event naming the
// deepest span that is still open. Heartbeats that keep naming the same
// segment point at a segment the parser is stuck on.
type Heartbeat struct {
	Tracer

	mu    sync.Mutex
	open  map[uint64]openSpan
	beats uint64

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type openSpan struct {
	name  string
	scope Scope
	since time.Time
}

// StartHeartbeat starts beating into t. Close the heartbeat instead of t.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	h := &Heartbeat{
		Tracer: t,
		open:   make(map[uint64]openSpan),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if t.Level() == LevelOff || interval <= 0 {
		close(h.done)
		return h
	}
	go h.run(interval)
	return h
}

func (h *Heartbeat) run(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			h.Tracer.Emit(h.beat(now))
		case <-h.stop:
			return
		}
	}
}

// Emit records span boundaries, then forwards ev.
func (h *Heartbeat) Emit(ev *Event) {
	switch ev.Kind {
	case KindBegin:
		h.mu.Lock()
		h.open[ev.Span] = openSpan{name: ev.Name, scope: ev.Scope, since: ev.Time}
		h.mu.Unlock()
	case KindEnd:
		h.mu.Lock()
		delete(h.open, ev.Span)
		h.mu.Unlock()
	}
	h.Tracer.Emit(ev)
}

func (h *Heartbeat) beat(now time.Time) *Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beats++

	var (
		cur   openSpan
		found bool
	)
	for _, sp := range h.open {
		if !found || sp.scope > cur.scope || (sp.scope == cur.scope && sp.since.Before(cur.since)) {
			cur, found = sp, true
		}
	}
	detail := "idle"
	if found {
		detail = fmt.Sprintf("%d open, in %s for %s", len(h.open), cur.name, now.Sub(cur.since).Round(time.Millisecond))
	}
	return &Event{
		Time:   now,
		Kind:   KindHeartbeat,
		Name:   fmt.Sprintf("heartbeat #%d", h.beats),
		Detail: detail,
	}
}

// Stop ends the beating goroutine. Safe to call more than once.
func (h *Heartbeat) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Close stops the heartbeat and closes the wrapped tracer.
func (h *Heartbeat) Close() error {
	h.Stop()
	return h.Tracer.Close()
}
