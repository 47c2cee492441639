package document

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by document operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// DefaultFontSize is the font size assumed when none is configured.
const DefaultFontSize = 12

// EditListener receives a notification after every successful edit.
// The old text in [At, At+OldLen) was replaced by NewLen bytes.
// Insertions have OldLen == 0, deletions have NewLen == 0.
type EditListener interface {
	OnEdit(at, oldLen, newLen int)
}

// EditListenerFunc adapts a function to the EditListener interface.
type EditListenerFunc func(at, oldLen, newLen int)

// OnEdit implements EditListener.
func (f EditListenerFunc) OnEdit(at, oldLen, newLen int) {
	f(at, oldLen, newLen)
}

// Document is an offset-addressable text store with edit notification.
// It is the backing text for one annotation session.
// All methods are thread-safe.
type Document struct {
	mu        sync.RWMutex
	text      string
	fontSize  int
	dirty     bool
	listeners []EditListener
}

// Option configures a Document.
type Option func(*Document)

// WithFontSize sets the document's base font size.
func WithFontSize(size int) Option {
	return func(d *Document) {
		if size > 0 {
			d.fontSize = size
		}
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{fontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromString creates a document with initial content.
// Line endings are normalized to LF.
func FromString(s string, opts ...Option) *Document {
	d := New(opts...)
	d.text = normalizeLineEndings(s)
	return d
}

// FromReader creates a document from an io.Reader.
func FromReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR sequences to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// TextRange returns the text in [start, end).
func (d *Document) TextRange(start, end int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	start, end = clampRange(start, end, len(d.text))
	return d.text[start:end]
}

// Len returns the total byte length of the document.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.text)
}

// FontSize returns the document's base font size.
func (d *Document) FontSize() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fontSize
}

// clampRange clips a range to [0, n] and orders its bounds.
func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end offset of the inserted text.
func (d *Document) Insert(at int, text string) (int, error) {
	d.mu.Lock()
	if at < 0 || at > len(d.text) {
		d.mu.Unlock()
		return 0, ErrOffsetOutOfRange
	}
	text = normalizeLineEndings(text)
	d.text = d.text[:at] + text + d.text[at:]
	d.dirty = true
	listeners := d.listeners
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnEdit(at, 0, len(text))
	}
	return at + len(text), nil
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end int) error {
	d.mu.Lock()
	if start < 0 || start > end || end > len(d.text) {
		d.mu.Unlock()
		return ErrRangeInvalid
	}
	d.text = d.text[:start] + d.text[end:]
	d.dirty = true
	listeners := d.listeners
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnEdit(start, end-start, 0)
	}
	return nil
}

// Replace replaces the text in [start, end) with new text.
// Returns the end offset of the replacement text.
func (d *Document) Replace(start, end int, text string) (int, error) {
	d.mu.Lock()
	if start < 0 || start > end || end > len(d.text) {
		d.mu.Unlock()
		return 0, ErrRangeInvalid
	}
	text = normalizeLineEndings(text)
	d.text = d.text[:start] + text + d.text[end:]
	d.dirty = true
	listeners := d.listeners
	d.mu.Unlock()

	for _, l := range listeners {
		l.OnEdit(start, end-start, len(text))
	}
	return start + len(text), nil
}

// Edit Notification

// OnEdit registers a listener notified after every successful edit.
// Listeners are invoked in registration order, outside the document lock.
func (d *Document) OnEdit(l EditListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dirty State

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// MarkDirty flags the document as having unsaved changes.
func (d *Document) MarkDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
}

// ClearDirty resets the dirty flag, typically after a save.
func (d *Document) ClearDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = false
}

// Line Helpers

// LineStart returns the offset of the start of the line containing offset.
func (d *Document) LineStart(offset int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	offset = clampOffset(offset, len(d.text))
	if i := strings.LastIndexByte(d.text[:offset], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// LineEnd returns the offset of the end of the line containing offset
// (the position of the newline, or the document end).
func (d *Document) LineEnd(offset int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	offset = clampOffset(offset, len(d.text))
	if i := strings.IndexByte(d.text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(d.text)
}

// LineNumber returns the 1-based line number containing offset.
func (d *Document) LineNumber(offset int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	offset = clampOffset(offset, len(d.text))
	return 1 + strings.Count(d.text[:offset], "\n")
}

func clampOffset(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
