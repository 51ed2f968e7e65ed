package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"quoted/internal/source"
)

// windowSize is the longest lookahead the lexer needs: the %{} marker.
const windowSize = 3

type slot struct {
	r    rune
	off  uint32
	size uint32
}

// Cursor reads runes through a ring of windowSize runes. Each rune is
// decoded once.
type Cursor struct {
	File *source.File
	// Limit is the exclusive upper bound of the scanned range.
	Limit uint32

	next uint32 // offset of the next undecoded byte
	ring [windowSize]slot
	head int // index of the current rune in ring
	n    int // runes held in ring
}

// NewCursor creates a cursor over the whole file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return NewRangeCursor(f, 0, limit)
}

// NewRangeCursor creates a cursor over [start, end) of the file. Offsets stay
// absolute, so spans of a batch segment point into the batch dump.
func NewRangeCursor(f *source.File, start, end uint32) Cursor {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	end = min(end, lenContent)
	start = min(start, end)
	c := Cursor{File: f, Limit: end, next: start}
	c.fill()
	return c
}

// fill decodes runes until the window is full or the input ends.
func (c *Cursor) fill() {
	for c.n < windowSize && c.next < c.Limit {
		r, sz := utf8.DecodeRune(c.File.Content[c.next:c.Limit])
		usz, err := safecast.Conv[uint32](sz)
		if err != nil {
			panic(fmt.Errorf("rune size overflow: %w", err))
		}
		c.ring[(c.head+c.n)%windowSize] = slot{r: r, off: c.next, size: usz}
		c.next += usz
		c.n++
	}
}

// EOF reports whether the range is exhausted.
func (c *Cursor) EOF() bool {
	return c.n == 0
}

// Off is the byte offset of the current rune, or Limit at EOF.
func (c *Cursor) Off() uint32 {
	if c.n == 0 {
		return c.Limit
	}
	return c.ring[c.head].off
}

func (c *Cursor) at(i int) rune {
	return c.ring[(c.head+i)%windowSize].r
}

// Peek returns the current rune, 0 at EOF.
func (c *Cursor) Peek() rune {
	if c.n == 0 {
		return 0
	}
	return c.at(0)
}

// Peek2 returns the current and next runes if both exist.
func (c *Cursor) Peek2() (r0, r1 rune, ok bool) {
	if c.n < 2 {
		return 0, 0, false
	}
	return c.at(0), c.at(1), true
}

// Peek3 returns the whole window if it holds three runes.
func (c *Cursor) Peek3() (r0, r1, r2 rune, ok bool) {
	if c.n < 3 {
		return 0, 0, 0, false
	}
	return c.at(0), c.at(1), c.at(2), true
}

// Bump consumes one rune and returns it.
func (c *Cursor) Bump() rune {
	if c.n == 0 {
		return 0
	}
	r := c.at(0)
	c.head = (c.head + 1) % windowSize
	c.n--
	c.fill()
	return r
}

// Mark is a saved position for building spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off())
}

// SpanFrom is the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off(),
	}
}

// Eat consumes the next rune if it matches r.
func (c *Cursor) Eat(r rune) bool {
	if c.n > 0 && c.at(0) == r {
		c.Bump()
		return true
	}
	return false
}
