package annotate

import (
	"errors"
	"math"
	"strconv"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
	"github.com/dshills/hilite/internal/style"
)

// Font scaling factors for ResizeFont, matching the 11/10 and 9/10
// steps of the interactive resize commands. Repeated scaling is lossy
// because every step rounds to a whole point size.
const (
	growFactor   = 1.1
	shrinkFactor = 0.9
)

// Annotator applies decoration kinds to the document's span set.
// All operations are no-ops on missing targets; only structural
// failures (unknown kind, canceled prompt) surface as errors, and a
// canceled prompt leaves the store untouched.
type Annotator struct {
	doc    *document.Document
	store  *span.Store
	reg    *style.Registry
	prompt style.Prompter
	onMut  func()
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithPrompter supplies the Prompter used to resolve interactive
// style values.
func WithPrompter(p style.Prompter) Option {
	return func(a *Annotator) { a.prompt = p }
}

// WithOnMutate registers a callback invoked after every successful
// mutation, typically to refresh an open span list view.
func WithOnMutate(fn func()) Option {
	return func(a *Annotator) { a.onMut = fn }
}

// New creates an Annotator over a document, its span store, and a
// kind registry.
func New(doc *document.Document, store *span.Store, reg *style.Registry, opts ...Option) *Annotator {
	a := &Annotator{doc: doc, store: store, reg: reg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the span store the annotator mutates.
func (a *Annotator) Store() *span.Store {
	return a.store
}

// mutated records a successful mutation.
func (a *Annotator) mutated() {
	a.doc.MarkDirty()
	if a.onMut != nil {
		a.onMut()
	}
}

// Apply applies a decoration kind over the selection [start, end).
// The merge decision is made at the selection start: if a span covers
// it, the resolved style is overlaid onto that span and its bounds are
// left unchanged.
func (a *Annotator) Apply(kind string, start, end int) error {
	return a.apply(kind, start, start, end, false)
}

// ApplyAt applies a decoration kind at a point with no selection.
// The target range is the word enclosing the point (or the nearest
// word on the line); with no word at all the operation is a silent
// no-op.
func (a *Annotator) ApplyAt(kind string, point int) error {
	return a.apply(kind, point, 0, 0, true)
}

func (a *Annotator) apply(kind string, point, start, end int, atPoint bool) error {
	if atPoint {
		var ok bool
		start, end, ok = a.doc.WordRange(point)
		if !ok {
			return nil
		}
		point = start
	}
	if start >= end {
		return nil
	}

	// Resolve before touching the store: a canceled prompt must not
	// leave a partially updated span set.
	patch, extra, err := a.reg.Resolve(kind, a.prompt)
	if err != nil {
		if errors.Is(err, style.ErrCanceled) {
			return nil
		}
		return err
	}

	if existing := a.store.At(point); existing != nil {
		a.mergeInto(existing, kind, patch, extra)
	} else {
		a.create(kind, start, end, patch, extra)
	}
	a.mutated()
	return nil
}

// mergeInto overlays resolved attributes onto an existing span.
// Bounds are never changed: composing decorations at a point yields
// one span carrying the union of the styles.
func (a *Annotator) mergeInto(s *span.Span, kind string, patch span.Style, extra style.Extra) {
	if s.Style == nil {
		s.Style = make(span.Style, len(patch))
	}
	s.Style.Merge(patch)
	s.Kind = kind
	if extra.HasNote {
		s.Note = extra.Note
	}
	if extra.Interactive {
		s.Interactive = true
	}
}

// create inserts a fresh span over [start, end).
func (a *Annotator) create(kind string, start, end int, patch span.Style, extra style.Extra) {
	a.store.Insert(&span.Span{
		Start:       start,
		End:         end,
		Style:       patch,
		Kind:        kind,
		Note:        extra.Note,
		Interactive: extra.Interactive,
	})
}

// ResizeFont grows (delta > 0) or shrinks (delta < 0) the font size of
// the span at point, creating one over the enclosing word when none
// exists. An explicit size > 0 overrides the scaled value. Sizes are
// rounded to the nearest whole point.
func (a *Annotator) ResizeFont(point, delta, explicit int) error {
	factor := growFactor
	if delta < 0 {
		factor = shrinkFactor
	}

	if existing := a.store.At(point); existing != nil {
		size := explicit
		if size <= 0 {
			size = scaleSize(a.spanFontSize(existing), factor)
		}
		if existing.Style == nil {
			existing.Style = make(span.Style, 1)
		}
		existing.Style[span.AttrFontSize] = strconv.Itoa(size)
		a.mutated()
		return nil
	}

	start, end, ok := a.doc.WordRange(point)
	if !ok {
		return nil
	}
	size := explicit
	if size <= 0 {
		size = scaleSize(a.doc.FontSize(), factor)
	}
	a.store.Insert(&span.Span{
		Start: start,
		End:   end,
		Style: span.Style{span.AttrFontSize: strconv.Itoa(size)},
		Kind:  "font-size",
	})
	a.mutated()
	return nil
}

// spanFontSize returns the span's current font size, falling back to
// the document default.
func (a *Annotator) spanFontSize(s *span.Span) int {
	if v, ok := s.Style[span.AttrFontSize]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return a.doc.FontSize()
}

// scaleSize multiplies a size by a factor and rounds to the nearest
// integer, never below 1.
func scaleSize(size int, factor float64) int {
	scaled := int(math.Round(float64(size) * factor))
	if scaled < 1 {
		return 1
	}
	return scaled
}

// SetNote replaces the note on the span at point.
// No-op when no span covers the point.
func (a *Annotator) SetNote(point int, note string) {
	s := a.store.At(point)
	if s == nil {
		return
	}
	s.Note = note
	a.mutated()
}

// Clear removes the span at point, if any.
func (a *Annotator) Clear(point int) {
	s := a.store.At(point)
	if s == nil {
		return
	}
	a.store.Remove(s.ID)
	a.mutated()
}

// ClearAll removes every span in the store.
func (a *Annotator) ClearAll() {
	a.store.RemoveAll()
	a.mutated()
}
