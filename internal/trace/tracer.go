package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// batch segments are parsed on several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close writes out anything still held and releases the output.
	Close() error
}

var seq atomic.Uint64

func nextSeq() uint64 { return seq.Add(1) }

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// Fanout sends every event to each of tracers.
func Fanout(level Level, tracers ...Tracer) Tracer {
	return fanout{level: level, tracers: tracers}
}

type fanout struct {
	level   Level
	tracers []Tracer
}

func (f fanout) Emit(ev *Event) {
	for _, t := range f.tracers {
		cp := *ev
		t.Emit(&cp)
	}
}

func (f fanout) Level() Level { return f.level }

func (f fanout) Close() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // last RingSize events, written on Close
	ModeBoth                   // streamed, plus the ring tail if the run failed
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeStream, ModeRing, ModeBoth} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeStream, fmt.Errorf("unknown trace mode %q (want stream|ring|both)", s)
}

const defaultRingSize = 4096

type Config struct {
	Level      Level
	Mode       Mode
	Format     Format
	Output     io.Writer // wins over OutputPath
	OutputPath string    // "-" or empty means stderr
	RingSize   int
	Heartbeat  time.Duration // consumed by the caller, see StartHeartbeat
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Format == FormatAuto {
		cfg.Format = formatForPath(cfg.OutputPath)
	}
	out, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeStream:
		return newStream(out, cfg.Level, cfg.Format), nil
	case ModeRing:
		return newRing(out, cfg.RingSize, cfg.Level, cfg.Format, false), nil
	case ModeBoth:
		// the stream owns the output; the ring tail goes to the same buffer
		stream := newStream(out, cfg.Level, cfg.Format)
		tail := newRing(stream, cfg.RingSize, cfg.Level, cfg.Format, true)
		return Fanout(cfg.Level, tail, stream), nil
	}
	return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
}

// output is a buffered trace destination. Standard streams are flushed after
// every event but never closed.
type output struct {
	*bufio.Writer
	file *os.File
	live bool
}

func (o *output) Close() error {
	err := o.Flush()
	if o.file == nil || o.file == os.Stderr || o.file == os.Stdout {
		return err
	}
	return errors.Join(err, o.file.Close())
}

func openOutput(cfg Config) (*output, error) {
	if cfg.Output != nil {
		return &output{Writer: bufio.NewWriter(cfg.Output)}, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return &output{Writer: bufio.NewWriter(os.Stderr), file: os.Stderr, live: true}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return &output{Writer: bufio.NewWriter(f), file: f}, nil
}
