package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("dump.txt", []byte("{}"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// the same path gets a new ID; the old content stays reachable
	id2 := fs.Add("./dump.txt", []byte("[]"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	if string(fs.Get(id1).Content) != "{}" || fs.Get(id2).Path != "dump.txt" {
		t.Errorf("versions mixed up: %q %q", fs.Get(id1).Content, fs.Get(id2).Path)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dump.txt", []byte("{:a,\n [1],\n\"x\"}"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}}, // the '\n' itself is on line 1
		{5, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 2, Col: 2}},
		{11, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLineAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dump.txt", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(2); got != "second" {
		t.Errorf("GetLine(2) = %q, want %q", got, "second")
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("GetLine(3) = %q, want %q", got, "third")
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
	if got := f.Text(Span{File: id, Start: 6, End: 12}); got != "second" {
		t.Errorf("Text = %q, want %q", got, "second")
	}
	if got := f.Text(Span{File: id, Start: 15, End: 100}); got != "ird" {
		t.Errorf("Text clamps to content, got %q", got)
	}
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(path, []byte{'{', 0xff, '}'}, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	_, err := fs.Load(path)
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *EncodingError, got %v", err)
	}
	if encErr.Offset != 1 {
		t.Errorf("Offset = %d, want 1", encErr.Offset)
	}
	if fs.Len() != 0 {
		t.Errorf("failed load must not add a file")
	}
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.txt")
	if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "[]"...), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "[]" {
		t.Errorf("Content = %q, want %q", f.Content, "[]")
	}
	if f.Flags&FileHadBOM == 0 {
		t.Errorf("expected FileHadBOM flag")
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "/home/user/project/dumps/a/very/long/dir/test.qd"}
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathAuto, "test.qd"},
		{PathAbsolute, "/home/user/project/dumps/a/very/long/dir/test.qd"},
		{PathRelative, "dumps/a/very/long/dir/test.qd"},
		{PathBasename, "test.qd"},
	}
	for _, tt := range tests {
		if got := f.FormatPath(tt.mode, "/home/user/project"); got != tt.want {
			t.Errorf("FormatPath(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
	stdin := &File{Path: "<stdin>"}
	if got := stdin.FormatPath(PathRelative, "/tmp"); got != "<stdin>" {
		t.Errorf("virtual name changed: %q", got)
	}
	if _, err := ParsePathMode("nearby"); err == nil {
		t.Error("ParsePathMode accepted an unknown mode")
	}
}
