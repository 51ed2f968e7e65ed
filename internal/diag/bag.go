package diag

import (
	"cmp"
	"slices"
	"sync"
)

// Bag collects diagnostics up to a limit. Batch workers share one Bag per
// segment and the driver merges them, so every method locks.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	limit int
}

// NewBag returns a Bag that keeps at most limit diagnostics; limit <= 0
// means no limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

func (b *Bag) full() bool {
	return b.limit > 0 && len(b.items) >= b.limit
}

// Add reports false when the limit dropped d.
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// HasErrors reports whether any kept diagnostic is an error.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Items returns a copy, safe to range over while workers still add.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Merge appends everything from other. The limit grows to fit: a merged
// segment bag was already limited on its own.
func (b *Bag) Merge(other *Bag) {
	if other == nil || other == b {
		return
	}
	theirs := other.Items()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, theirs...)
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items))
	}
}

// Sort orders by file and position, errors before warnings at the same
// span, then by code.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeats of the same code at the same span, keeping the first.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span [3]uint32
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
