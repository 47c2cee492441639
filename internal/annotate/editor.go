package annotate

import (
	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

// Editor dispatches copy, cut, paste, and kill-line over the document,
// substituting span-aware behavior only when the affected range
// actually contains spans and deferring to the plain document
// primitives otherwise. The substitution is decided per call; spanless
// ranges always take the default path.
type Editor struct {
	doc     *document.Document
	store   *span.Store
	adapter *Adapter
	session *Session
}

// NewEditor wires an editor over a document, its store, and a session.
// The adapter is registered with the document as an edit listener.
func NewEditor(doc *document.Document, store *span.Store, session *Session) *Editor {
	return &Editor{
		doc:     doc,
		store:   store,
		adapter: NewAdapter(doc, store),
		session: session,
	}
}

// Adapter exposes the underlying text-edit adapter.
func (e *Editor) Adapter() *Adapter {
	return e.adapter
}

// spanAware reports whether [start, end) contains at least one span.
func (e *Editor) spanAware(start, end int) bool {
	return len(e.store.InRange(start, end)) > 0
}

// Copy captures [start, end) into the session payload. With spans in
// the range the capture includes them; otherwise it is the default
// plain-text copy.
func (e *Editor) Copy(start, end int) {
	if e.spanAware(start, end) {
		e.session.SetPayload(e.adapter.Copy(start, end))
		return
	}
	e.session.SetPayload(&Payload{
		Text:     e.doc.TextRange(start, end),
		consumed: true, // nothing to replay
	})
}

// Cut captures [start, end) into the session payload and deletes the
// text. The spanless path is the default delete with a plain-text
// payload.
func (e *Editor) Cut(start, end int) error {
	if e.spanAware(start, end) {
		p, err := e.adapter.Cut(start, end)
		if err != nil {
			return err
		}
		e.session.SetPayload(p)
		return nil
	}

	text := e.doc.TextRange(start, end)
	if err := e.doc.Delete(start, end); err != nil {
		return err
	}
	e.session.SetPayload(&Payload{Text: text, consumed: true})
	return nil
}

// Paste inserts the session payload at the given offset. The first
// paste of a span-carrying payload recreates its spans; any further
// paste degrades to the default plain-text insertion. With no payload
// at all it is a no-op. Returns the end offset of the inserted text.
func (e *Editor) Paste(at int) (int, error) {
	p := e.session.Payload()
	if p == nil || p.Text == "" {
		return at, nil
	}
	return e.adapter.Paste(p, at)
}

// KillLine cuts from offset to the end of its line; when the offset is
// already at the line end, it cuts the newline instead. This mirrors
// the host kill-line primitive while keeping span bookkeeping exact.
func (e *Editor) KillLine(at int) error {
	end := e.doc.LineEnd(at)
	if end == at && end < e.doc.Len() {
		end++ // consume the newline
	}
	if end == at {
		return nil
	}
	return e.Cut(at, end)
}
