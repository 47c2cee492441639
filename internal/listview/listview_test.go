package listview

import (
	"strings"
	"testing"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

func TestEntriesDocumentOrder(t *testing.T) {
	doc := document.FromString("one two three\nfour five\n")
	st := span.NewStore()
	st.Insert(&span.Span{Start: 14, End: 18, Kind: "green", Style: span.Style{}})
	st.Insert(&span.Span{Start: 0, End: 3, Kind: "yellow", Note: "start", Style: span.Style{}})

	entries := Entries(doc, st)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Position != 0 || first.Line != 1 {
		t.Errorf("expected first entry at 0 line 1, got %d line %d", first.Position, first.Line)
	}
	if first.DisplayText != "one" || first.Kind != "yellow" || first.Note != "start" {
		t.Errorf("unexpected first entry: %+v", first)
	}

	second := entries[1]
	if second.Position != 14 || second.Line != 2 {
		t.Errorf("expected second entry at 14 line 2, got %d line %d", second.Position, second.Line)
	}
	if second.DisplayText != "four" {
		t.Errorf("expected 'four', got %q", second.DisplayText)
	}
}

func TestEntriesMultilineExcerpt(t *testing.T) {
	doc := document.FromString("first line\nsecond line\n")
	st := span.NewStore()
	st.Insert(&span.Span{Start: 6, End: 18, Kind: "comment", Style: span.Style{}})

	entries := Entries(doc, st)
	if entries[0].DisplayText != "line" {
		t.Errorf("excerpt should stop at the newline, got %q", entries[0].DisplayText)
	}
}

func TestEntriesTruncation(t *testing.T) {
	long := strings.Repeat("x", 100)
	doc := document.FromString(long)
	st := span.NewStore()
	st.Insert(&span.Span{Start: 0, End: 100, Kind: "yellow", Style: span.Style{}})

	entries := Entries(doc, st)
	got := entries[0].DisplayText
	if len([]rune(got)) != MaxDisplayWidth {
		t.Errorf("expected %d runes, got %d", MaxDisplayWidth, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestEntriesEmptyStore(t *testing.T) {
	doc := document.FromString("text")
	entries := Entries(doc, span.NewStore())
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
