package diagfmt

import (
	"encoding/json"
	"io"

	"quoted/internal/diag"
	"quoted/internal/source"
)

type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON points into a dump: byte range always, lines on request.
type LocationJSON struct {
	File  string        `json:"file"`
	Bytes [2]uint32     `json:"bytes"`
	Start *PositionJSON `json:"start,omitempty"`
	End   *PositionJSON `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON. Errors counts every
// error in the bag even when Max cut the list.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

// location is nil when span does not point into fs.
func (b jsonBuilder) location(span source.Span) *LocationJSON {
	if b.fs == nil {
		return nil
	}
	f := b.fs.Get(span.File)
	if f == nil {
		return nil
	}
	loc := &LocationJSON{
		File:  formatPath(f, b.fs, b.opts.PathMode),
		Bytes: [2]uint32{span.Start, span.End},
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.Start = &PositionJSON{Line: start.Line, Col: start.Col}
		loc.End = &PositionJSON{Line: end.Line, Col: end.Col}
	}
	return loc
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
	}
	if located(d, b.fs) {
		out.Location = b.location(d.Primary)
	}
	// timing notes carry phase JSON and no position
	timings := d.Code == diag.ObsTimings
	if !b.opts.IncludeNotes && !timings {
		return out
	}
	for _, n := range d.Notes {
		note := NoteJSON{Message: n.Msg}
		if !timings {
			note.Location = b.location(n.Span)
		}
		out.Notes = append(out.Notes, note)
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	b := jsonBuilder{fs: fs, opts: opts}
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for i := range items {
		if items[i].Severity == diag.SevError {
			out.Errors++
		}
		if opts.Max > 0 && len(out.Diagnostics) == opts.Max {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(&items[i]))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
