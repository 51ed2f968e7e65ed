package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns every dump read during one run. Spans carry a FileID into it,
// and diagnostics resolve those spans back to lines here.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// SetBaseDir sets the directory relative paths are computed from; the
// working directory is used when unset.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores already-decoded content under a fresh FileID. Adding the same
// path twice yields two files: a batch re-read after the quoter rewrote it
// must not alias spans of the old content.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	return id
}

// Load reads and decodes a dump from disk (see Decode). Nothing is added
// when the bytes are not valid text; the error is then an *EncodingError.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-supplied path
	if err != nil {
		return 0, err
	}
	content, flags, err := Decode(path, raw)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds bytes that did not come from a file on disk: stdin,
// quoter output, tests. They are taken as is.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns nil for an unknown ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the bytes under span, clamped to the content.
func (f *File) Text(span Span) string {
	return string(span.Bytes(f.Content))
}

// GetLine returns line n (1-based) without its '\n', or "" past the end.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end])
}

// PathMode is how a file path is shown in diagnostics.
type PathMode uint8

const (
	PathAuto     PathMode = iota // as given, long absolute paths cut to the base name
	PathAbsolute                 // always absolute
	PathRelative                 // relative to the FileSet base dir
	PathBasename                 // base name only
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// ParsePathMode accepts the names printed by PathMode.String.
func ParsePathMode(s string) (PathMode, error) {
	for i, name := range pathModeNames {
		if strings.EqualFold(s, name) {
			return PathMode(i), nil
		}
	}
	return PathAuto, fmt.Errorf("unknown path mode %q (expected %s)", s, strings.Join(pathModeNames[:], "|"))
}

// longPath is where PathAuto starts cutting absolute paths.
const longPath = 40

// FormatPath renders f.Path in mode; baseDir is used by PathRelative and
// defaults to the working directory. Virtual names such as "<stdin>" are
// returned unchanged when a mode cannot apply to them.
func (f *File) FormatPath(mode PathMode, baseDir string) string {
	switch mode {
	case PathAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := filepath.Rel(baseDir, f.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathBasename:
		return filepath.Base(f.Path)
	default:
		if len(f.Path) >= longPath && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
