package observ

import (
	"fmt"
	"sync"
	"time"
)

// Timer records how long the steps of one run took. Wall-clock steps come
// from Track; per-segment work that overlaps them is summed with Add. Safe
// for concurrent use, and a nil Timer records nothing.
type Timer struct {
	mu    sync.Mutex
	steps []step
	sums  []step
	sumAt map[string]int
}

type step struct {
	name  string
	dur   time.Duration
	count int
	note  string
}

func NewTimer() *Timer {
	return &Timer{sumAt: make(map[string]int)}
}

// Track starts the step name; calling the returned func stops it. Only the
// first call counts.
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	idx := len(t.steps)
	t.steps = append(t.steps, step{name: name, count: 1})
	t.mu.Unlock()

	started := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.steps[idx].dur = time.Since(started)
			t.steps[idx].note = note
		})
	}
}

// Add sums d into the aggregate name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.sumAt[name]
	if !ok {
		idx = len(t.sums)
		t.sumAt[name] = idx
		t.sums = append(t.sums, step{name: name})
	}
	s := &t.sums[idx]
	s.dur += d
	s.count++
	s.note = fmt.Sprintf("%d segments", s.count)
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report lists tracked steps, then aggregates. TotalMS sums tracked steps
// only, since aggregates overlap them in time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, s := range t.steps {
		total += s.dur
		r.Phases = append(r.Phases, s.report())
	}
	for _, s := range t.sums {
		r.Phases = append(r.Phases, s.report())
	}
	r.TotalMS = millis(total)
	return r
}

func (s step) report() PhaseReport {
	return PhaseReport{Name: s.name, DurationMS: millis(s.dur), Count: s.count, Note: s.note}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
