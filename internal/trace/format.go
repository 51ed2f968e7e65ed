package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of trace output.
type Format uint8

const (
	FormatAuto   Format = iota // by output extension: .ndjson/.jsonl, else text
	FormatText                 // indented, one event per line
	FormatNDJSON               // one JSON object per line
)

func formatForPath(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// FormatEvent renders one event terminated by a newline. Text output shows
// times relative to since.
func FormatEvent(ev *Event, format Format, since time.Time) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev, since)
}

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope,omitempty"`
	Span      uint64            `json:"span,omitempty"`
	Parent    uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	Failed    bool              `json:"failed,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func eventJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:      ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     scopeOrEmpty(ev.Scope),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Detail:    ev.Detail,
		Failed:    ev.Failed,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Attrs:     ev.Attrs,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

func scopeOrEmpty(s Scope) string {
	if s == 0 {
		return ""
	}
	return s.String()
}

// eventText: "[  12.345ms]     > segment:lib/a.ex #7" plus detail, elapsed
// time for ends and attrs sorted by key.
func eventText(ev *Event, since time.Time) []byte {
	var sb strings.Builder
	var rel time.Duration
	if !since.IsZero() {
		rel = ev.Time.Sub(since)
	}
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(rel.Microseconds())/1000)
	if ev.Scope > ScopeDriver {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}

	mark := map[Kind]string{KindBegin: ">", KindEnd: "<", KindPoint: "*", KindHeartbeat: "~"}[ev.Kind]
	if ev.Failed {
		mark = "!"
	}
	sb.WriteString(mark)
	sb.WriteByte(' ')
	sb.WriteString(ev.Name)
	if ev.Span != 0 {
		fmt.Fprintf(&sb, " #%d", ev.Span)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " %s", ev.Elapsed.Round(time.Microsecond))
	}
	if len(ev.Attrs) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s=%s", k, ev.Attrs[k])
		}
		sb.WriteByte('}')
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
