package codec

import (
	"strings"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

// Persisted-token framing. The token lives on its own line in the
// document's trailing metadata region, preceded by an enabling
// directive that tells the host to load spans on open.
const (
	// TokenMarker precedes the token on its line.
	TokenMarker = "hilite-data: "

	// Directive enables automatic loading on open.
	Directive = "hilite: on"
)

// LocateToken finds the persisted token inside the document text.
// Returns the offset range of the token itself (marker excluded) and
// ok == false when no token is present.
func LocateToken(text string) (start, end int, ok bool) {
	idx := lineIndex(text, TokenMarker)
	if idx < 0 {
		return 0, 0, false
	}
	start = idx + len(TokenMarker)
	end = start
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return start, end, true
}

// lineIndex returns the offset of the last line beginning with prefix,
// or -1. Matching whole lines keeps the marker unambiguous even when
// the body text mentions it mid-line.
func lineIndex(text, prefix string) int {
	for search := len(text); search > 0; {
		idx := strings.LastIndex(text[:search], prefix)
		if idx < 0 {
			return -1
		}
		if idx == 0 || text[idx-1] == '\n' {
			return idx
		}
		search = idx
	}
	return -1
}

// Save writes the span set into the document's trailing metadata
// region: the token line is created or replaced in place, and the
// enabling directive is ensured present. An empty span set takes the
// cleanup path instead, removing both the token and the directive.
// Clears the document's dirty flag on success.
func (c *Codec) Save(doc *document.Document, store *span.Store) error {
	spans := store.All()

	if len(spans) == 0 {
		if err := removeLine(doc, TokenMarker); err != nil {
			return err
		}
		if err := removeLine(doc, Directive); err != nil {
			return err
		}
		doc.ClearDirty()
		return nil
	}

	token := c.Serialize(spans)

	if start, end, ok := LocateToken(doc.Text()); ok {
		if _, err := doc.Replace(start, end, token); err != nil {
			return err
		}
	} else {
		if err := appendLine(doc, TokenMarker+token); err != nil {
			return err
		}
	}

	if lineIndex(doc.Text(), Directive) < 0 {
		if err := appendLine(doc, Directive); err != nil {
			return err
		}
	}

	doc.ClearDirty()
	return nil
}

// Load reads the persisted token and repopulates the store. With no
// token present the store is left empty, which is not an error. A
// corrupt token surfaces as *CorruptDataError; whether to treat that
// as "no prior spans" is the caller's policy. Span IDs are reassigned
// in document order.
func (c *Codec) Load(doc *document.Document, store *span.Store) error {
	start, end, ok := LocateToken(doc.Text())
	if !ok {
		store.RemoveAll()
		return nil
	}

	spans, err := c.Deserialize(doc.TextRange(start, end))
	if err != nil {
		return err
	}

	store.RemoveAll()
	for _, s := range spans {
		store.Insert(s)
	}
	return nil
}

// appendLine adds a line at the end of the document, inserting a
// newline separator when the text does not already end with one.
func appendLine(doc *document.Document, line string) error {
	text := doc.Text()
	insert := line + "\n"
	if len(text) > 0 && !strings.HasSuffix(text, "\n") {
		insert = "\n" + insert
	}
	_, err := doc.Insert(len(text), insert)
	return err
}

// removeLine deletes the last whole line beginning with prefix,
// including its trailing newline. Missing lines are fine.
func removeLine(doc *document.Document, prefix string) error {
	text := doc.Text()
	idx := lineIndex(text, prefix)
	if idx < 0 {
		return nil
	}
	end := idx
	for end < len(text) && text[end] != '\n' {
		end++
	}
	if end < len(text) {
		end++ // include the newline
	}
	return doc.Delete(idx, end)
}
