package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// stream formats each admitted event straight into out.
type stream struct {
	mu      sync.Mutex
	out     *output
	level   Level
	format  Format
	started time.Time
}

func newStream(out *output, level Level, format Format) *stream {
	return &stream{out: out, level: level, format: format, started: time.Now()}
}

func (s *stream) Emit(ev *Event) {
	if !s.level.admits(ev) {
		return
	}
	ev.Seq = nextSeq()
	// trace write errors never fail the run
	_, _ = s.Write(FormatEvent(ev, s.format, s.started))
}

// Write appends raw bytes to the stream; the ring tail uses it in ModeBoth.
func (s *stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.out.Write(p)
	if err == nil && s.out.live {
		err = s.out.Flush()
	}
	return n, err
}

func (s *stream) Level() Level { return s.level }

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}

// ring keeps the newest admitted events and writes them out on Close. With
// onFailure set it stays silent unless a failed event went through it.
type ring struct {
	mu        sync.Mutex
	out       io.Writer
	buf       []Event
	next      int
	wrapped   bool
	dropped   int
	failed    bool
	onFailure bool
	level     Level
	format    Format
	started   time.Time
}

func newRing(out io.Writer, size int, level Level, format Format, onFailure bool) *ring {
	return &ring{
		out:       out,
		buf:       make([]Event, size),
		onFailure: onFailure,
		level:     level,
		format:    format,
		started:   time.Now(),
	}
}

func (r *ring) Emit(ev *Event) {
	if !r.level.admits(ev) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = nextSeq()
	}
	if r.wrapped {
		r.dropped++
	}
	r.buf[r.next] = stored
	r.next++
	if r.next == len(r.buf) {
		r.next, r.wrapped = 0, true
	}
	r.failed = r.failed || ev.Failed
}

// Events returns the retained events, oldest first.
func (r *ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.wrapped {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

func (r *ring) Level() Level { return r.level }

func (r *ring) Close() error {
	r.mu.Lock()
	skip := r.onFailure && !r.failed
	dropped := r.dropped
	r.mu.Unlock()

	var err error
	if !skip {
		err = r.dump(dropped)
	}
	if c, ok := r.out.(*output); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (r *ring) dump(dropped int) error {
	events := r.Events()
	if r.format == FormatText {
		header := fmt.Sprintf("-- last %d trace events", len(events))
		if dropped > 0 {
			header += fmt.Sprintf(" (%d earlier dropped)", dropped)
		}
		if _, err := io.WriteString(r.out, header+" --\n"); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := r.out.Write(FormatEvent(&events[i], r.format, r.started)); err != nil {
			return err
		}
	}
	return nil
}
