package diagfmt

import "quoted/internal/source"

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // source lines shown before the error line
	PathMode  source.PathMode
	Width     uint8 // snippet line cut, 0 = none
	ShowNotes bool
}

// JSONOpts configures JSON.
type JSONOpts struct {
	IncludePositions bool // line/col besides byte offsets
	IncludeNotes     bool
	PathMode         source.PathMode
	Max              int // caps the output, not the Bag
}
