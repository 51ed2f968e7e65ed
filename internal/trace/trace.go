package trace

import (
	"fmt"
	"strings"
	"time"
)

// Level controls how much of a run is traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // failed spans only
	LevelPhase        // whole runs and lex+parse passes
	LevelDetail       // plus batch segments
	LevelDebug        // plus tuple/list nodes
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown trace level %q (want %s)", s, strings.Join(levelNames[:], "|"))
}

// Covers reports whether spans of scope are recorded at l. At LevelError
// every scope is recorded, but only failures reach the output.
func (l Level) Covers(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelDebug:
		return true
	case LevelPhase:
		return scope <= ScopePass
	default:
		return scope <= ScopeSegment
	}
}

func (l Level) admits(ev *Event) bool {
	switch {
	case l == LevelOff:
		return false
	case ev.Kind == KindHeartbeat:
		return true
	case l == LevelError:
		return ev.Failed
	}
	return l.Covers(ev.Scope)
}

// Scope is the granularity of an event; larger values are finer.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // a whole batch or quote run
	ScopePass                     // one lex+parse, split or quoter call
	ScopeSegment                  // one batch segment
	ScopeNode                     // tuple/list boundaries
)

var scopeNames = [...]string{"", "driver", "pass", "segment", "node"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Kind says what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time    time.Time
	Seq     uint64
	Kind    Kind
	Scope   Scope
	Span    uint64 // owning span; 0 for heartbeats
	Parent  uint64
	Name    string // "batch", "parse", "segment:lib/a.ex"
	Detail  string
	Failed  bool
	Elapsed time.Duration // set on KindEnd
	Attrs   map[string]string
}
