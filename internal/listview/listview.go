// Package listview projects the span store into a read-only index for
// presentation: one entry per span, in document order, with a display
// excerpt, position, kind, and note. Jumping to an entry's position is
// the consuming surface's concern.
package listview

import (
	"strings"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

// MaxDisplayWidth is the excerpt truncation width in runes.
const MaxDisplayWidth = 60

// Entry is one row of the span index.
type Entry struct {
	// SpanID identifies the span.
	SpanID span.ID

	// Position is the span's start offset.
	Position int

	// Line is the 1-based line number of the span start.
	Line int

	// DisplayText is the first line of the covered text, truncated.
	DisplayText string

	// Kind is the decoration kind label.
	Kind string

	// Note is the span's note, if any.
	Note string
}

// Entries builds the index for every span in document order.
func Entries(doc *document.Document, store *span.Store) []Entry {
	spans := store.All()
	entries := make([]Entry, 0, len(spans))
	for _, s := range spans {
		entries = append(entries, Entry{
			SpanID:      s.ID,
			Position:    s.Start,
			Line:        doc.LineNumber(s.Start),
			DisplayText: excerpt(doc.TextRange(s.Start, s.End)),
			Kind:        s.Kind,
			Note:        s.Note,
		})
	}
	return entries
}

// excerpt reduces covered text to its first line, truncated with an
// ellipsis when it exceeds MaxDisplayWidth runes.
func excerpt(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) <= MaxDisplayWidth {
		return text
	}
	return string(runes[:MaxDisplayWidth-1]) + "…"
}
