package diag

import (
	"sync"
	"testing"

	"quoted/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if unlimited := NewBag(0); !unlimited.Add(NewError(SynUnexpectedToken, source.Span{}, "x")) {
		t.Fatal("limit 0 must not drop")
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevInfo, ObsTimings, source.Span{}, "timings"))
	b.Add(New(SevWarning, LexUnknownChar, source.Span{}, "w"))
	if b.HasErrors() {
		t.Fatal("info and warning are not errors")
	}
	b.Add(NewError(SynExpectComma, source.Span{}, "e"))
	if !b.HasErrors() {
		t.Fatal("error not seen")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, LexUnknownChar, source.Span{Start: 5, End: 6}, "w"))
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 5, End: 6}, "e"))
	b.Add(NewError(LexBadNumber, source.Span{Start: 1, End: 3}, "n"))
	b.Add(NewError(LexBadNumber, source.Span{Start: 1, End: 3}, "n again"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("Dedup: len = %d, want 3", b.Len())
	}

	b.Sort()
	items := b.Items()
	wantCodes := []Code{LexBadNumber, SynUnexpectedToken, LexUnknownChar}
	for i, want := range wantCodes {
		if items[i].Code != want {
			t.Fatalf("item %d: code %s, want %s", i, items[i].Code.ID(), want.ID())
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynUnexpectedToken, source.Span{}, "a"))
	other := NewBag(2)
	other.Add(NewError(SynUnexpectedToken, source.Span{Start: 1}, "b"))
	other.Add(NewError(SynUnexpectedToken, source.Span{Start: 2}, "c"))

	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("Merge: len=%d, want 3", a.Len())
	}
	if a.Add(NewError(SynUnexpectedToken, source.Span{Start: 3}, "d")) {
		t.Fatal("limit must grow only to the merged size")
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(1000)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(n*100 + j)}, "x"))
			}
		}(i)
	}
	wg.Wait()
	if b.Len() != 400 {
		t.Fatalf("Len = %d, want 400", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag}
	bld := ReportError(r, SynUnclosedDelimiter, source.Span{Start: 4, End: 4}, "expected '}'").
		WithNote(source.Span{Start: 0, End: 1}, "'{' opened here")
	bld.Emit()
	bld.Emit()
	ReportError(nil, SynUnclosedDelimiter, source.Span{}, "dropped").Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "'{' opened here" {
		t.Fatalf("note lost: %+v", d.Notes)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		LexUnterminatedString: "LEX1002",
		SynTrailingComma:      "SYN2004",
		IOInvalidEncoding:     "IO4002",
		DumpMissingHeader:     "IO4101",
		QuoterNotFound:        "QTR5002",
		ObsTimings:            "OBS6001",
		Code(3000):            "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(9999).Title())
	}
}
