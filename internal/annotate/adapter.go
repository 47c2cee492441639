package annotate

import (
	"github.com/google/uuid"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

// Payload is the result of a span-aware copy or cut: the plain text of
// the captured range plus deep copies of every intersecting span,
// rebased to offsets relative to the range start so they can be
// replayed at any insertion point. The span data is single-use; the
// text survives for plain re-insertion.
type Payload struct {
	// ID identifies the capture.
	ID string

	// Text is the plain text of the captured range.
	Text string

	// Spans are deep copies with offsets relative to the capture
	// start, clipped to the captured range.
	Spans []*span.Span

	// consumed is set once the span data has been pasted.
	consumed bool
}

// Consumed reports whether the payload's span data has been used.
func (p *Payload) Consumed() bool {
	return p.consumed
}

// Adapter keeps the span store consistent under document edits.
// Registered as an edit listener, it renumbers span offsets in a
// single pass per edit; it also implements span-aware capture and
// replay for copy, cut, and paste.
type Adapter struct {
	doc   *document.Document
	store *span.Store
}

// NewAdapter creates an adapter and registers it with the document.
func NewAdapter(doc *document.Document, store *span.Store) *Adapter {
	a := &Adapter{doc: doc, store: store}
	doc.OnEdit(a)
	return a
}

// OnEdit implements document.EditListener. A replace is handled as a
// delete followed by an insert at the same position, so text replacing
// the interior of a span stays part of the span.
func (a *Adapter) OnEdit(at, oldLen, newLen int) {
	if oldLen > 0 {
		a.store.ClipForDelete(at, oldLen)
	}
	if newLen > 0 {
		a.store.ShiftForInsert(at, newLen)
	}
}

// Copy captures the text and spans of [start, end).
// Must run before any destructive edit removes the originals.
func (a *Adapter) Copy(start, end int) *Payload {
	if start > end {
		start, end = end, start
	}

	p := &Payload{
		ID:   uuid.NewString(),
		Text: a.doc.TextRange(start, end),
	}

	for _, s := range a.store.InRange(start, end) {
		c := s.Clone()
		c.Start = max(c.Start, start) - start
		c.End = min(c.End, end) - start
		p.Spans = append(p.Spans, c)
	}
	return p
}

// Cut captures [start, end) and then deletes it; span bookkeeping for
// the deletion runs through OnEdit.
func (a *Adapter) Cut(start, end int) (*Payload, error) {
	p := a.Copy(start, end)
	if err := a.doc.Delete(start, end); err != nil {
		return nil, err
	}
	return p, nil
}

// Paste inserts the payload text at the given offset and, on first
// use, recreates the captured spans at their rebased positions.
// Subsequent pastes of the same payload insert plain text only.
// Returns the end offset of the inserted text.
func (a *Adapter) Paste(p *Payload, at int) (int, error) {
	end, err := a.doc.Insert(at, p.Text)
	if err != nil {
		return 0, err
	}
	if p.consumed {
		return end, nil
	}
	p.consumed = true

	for _, rel := range p.Spans {
		c := rel.Clone()
		c.Start = at + rel.Start
		c.End = at + rel.End
		a.store.Insert(c)
	}
	return end, nil
}
