package source

// FileID indexes a FileSet.
type FileID uint32

// FileFlags records how a dump's bytes were obtained.
type FileFlags uint8

const (
	FileVirtual    FileFlags = 1 << iota // stdin, quoter output or test input
	FileHadBOM                           // a UTF-8 BOM was stripped
	FileTranscoded                       // arrived as UTF-16, converted to UTF-8
)

// File is one decoded dump. LineIdx holds the offset of every '\n'.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
