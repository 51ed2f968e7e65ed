package diag

import (
	"testing"

	"quoted/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("sample.qd", []byte("{:a,\n 5,}\n"))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynTrailingComma,
			Message:  "trailing comma\nbefore '}'",
			Primary:  source.Span{File: file, Start: 8, End: 9},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "tuple opened here"},
			},
		},
		{
			Severity: SevWarning,
			Code:     LexUnknownChar,
			Message:  "skipped",
			Primary:  source.Span{File: file, Start: 1, End: 2},
		},
	}

	expected := "note SYN2004 sample.qd:1:1 tuple opened here\n" +
		"warning LEX1001 sample.qd:1:2 skipped\n" +
		"error SYN2004 sample.qd:2:4 trailing comma before '}'"

	if got := FormatShortDiagnostics(diags, fs, source.PathRelative, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	withoutNotes := FormatShortDiagnostics(diags, fs, source.PathRelative, false)
	if withoutNotes != "warning LEX1001 sample.qd:1:2 skipped\nerror SYN2004 sample.qd:2:4 trailing comma before '}'" {
		t.Fatalf("notes must be skipped, got:\n%s", withoutNotes)
	}
}

func TestFormatShortDiagnosticsUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	diags := []Diagnostic{NewError(SynUnexpectedToken, source.Span{File: 7}, "x")}
	if got := FormatShortDiagnostics(diags, fs, source.PathRelative, false); got != "" {
		t.Fatalf("expected empty output for unknown file, got %q", got)
	}
}

func TestFormatShortDiagnosticsIsOrderIndependent(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("./lib/batch.qd", []byte("{:a}\n{:b}\n"))
	a := NewError(SynUnexpectedToken, source.Span{File: file, Start: 6, End: 7}, "b")
	b := NewError(SynUnexpectedToken, source.Span{File: file, Start: 1, End: 2}, "a")

	got := FormatShortDiagnostics([]Diagnostic{a, b}, fs, source.PathRelative, false)
	if got != FormatShortDiagnostics([]Diagnostic{b, a}, fs, source.PathRelative, false) {
		t.Fatalf("order leaked into output:\n%s", got)
	}
	if want := "error SYN2001 lib/batch.qd:1:2 a\nerror SYN2001 lib/batch.qd:2:2 b"; got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatShortDiagnosticsPathMode(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("lib/deep/sample.qd", []byte("{:a,}"))
	diags := []Diagnostic{NewError(SynTrailingComma, source.Span{File: file, Start: 4, End: 5}, "trailing comma")}

	tests := []struct {
		mode source.PathMode
		want string
	}{
		{source.PathBasename, "error SYN2004 sample.qd:1:5 trailing comma"},
		{source.PathAuto, "error SYN2004 lib/deep/sample.qd:1:5 trailing comma"},
	}
	for _, tt := range tests {
		if got := FormatShortDiagnostics(diags, fs, tt.mode, false); got != tt.want {
			t.Errorf("mode %v: got %q, want %q", tt.mode, got, tt.want)
		}
	}
}
