package span

import (
	"sort"
	"sync"
)

// Store owns the set of annotation spans for one open document.
// Spans are kept sorted by start offset, so enumeration is document
// order. The store never touches document text; offset maintenance
// under edits is the annotate package's responsibility.
// All methods are thread-safe.
type Store struct {
	mu      sync.RWMutex
	spans   []*Span // sorted by Start, then seq
	nextID  ID
	nextSeq uint64
}

// NewStore creates an empty span store.
func NewStore() *Store {
	return &Store{nextID: 1, nextSeq: 1}
}

// Insert adds a span to the store and assigns its identity.
// Returns the assigned ID.
func (st *Store) Insert(s *Span) ID {
	st.mu.Lock()
	defer st.mu.Unlock()

	s.ID = st.nextID
	st.nextID++
	s.seq = st.nextSeq
	st.nextSeq++

	idx := sort.Search(len(st.spans), func(i int) bool {
		if st.spans[i].Start != s.Start {
			return st.spans[i].Start > s.Start
		}
		return st.spans[i].seq > s.seq
	})
	st.spans = append(st.spans, nil)
	copy(st.spans[idx+1:], st.spans[idx:])
	st.spans[idx] = s

	return s.ID
}

// Remove deletes the span with the given ID.
// Returns false if no such span exists.
func (st *Store) Remove(id ID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i, s := range st.spans {
		if s.ID == id {
			st.spans = append(st.spans[:i], st.spans[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll empties the store.
func (st *Store) RemoveAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.spans = nil
}

// All returns every span in document order (by start offset, spans
// with equal starts in creation order). The slice is a copy; the
// spans are the live objects.
func (st *Store) All() []*Span {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]*Span, len(st.spans))
	copy(result, st.spans)
	return result
}

// Len returns the number of spans in the store.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.spans)
}

// Get returns the span with the given ID, or nil.
func (st *Store) Get(id ID) *Span {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, s := range st.spans {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// At returns the span containing offset, or nil. When several spans
// contain the offset, the innermost (narrowest) wins; fully
// overlapping spans resolve to the most recently created.
func (st *Store) At(offset int) *Span {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var best *Span
	for _, s := range st.spans {
		if s.Start > offset {
			break
		}
		if !s.Contains(offset) {
			continue
		}
		if best == nil || s.Len() < best.Len() ||
			(s.Len() == best.Len() && s.seq > best.seq) {
			best = s
		}
	}
	return best
}

// InRange returns all spans intersecting [start, end), in document order.
func (st *Store) InRange(start, end int) []*Span {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var result []*Span
	for _, s := range st.spans {
		if s.Start >= end {
			break
		}
		if s.Intersects(start, end) {
			result = append(result, s)
		}
	}
	return result
}

// resort re-establishes the start-offset ordering after a batch of
// offset mutations. Called by ShiftForInsert and ClipForDelete.
func (st *Store) resort() {
	sort.SliceStable(st.spans, func(i, j int) bool {
		if st.spans[i].Start != st.spans[j].Start {
			return st.spans[i].Start < st.spans[j].Start
		}
		return st.spans[i].seq < st.spans[j].seq
	})
}

// ShiftForInsert renumbers spans after text of length n was inserted
// at offset at. Spans starting at or after the insertion point shift
// forward; a span strictly containing the insertion point grows, so
// text typed inside a span stays part of it. Applied to all spans in
// one pass.
func (st *Store) ShiftForInsert(at, n int) {
	if n <= 0 {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	for _, s := range st.spans {
		switch {
		case s.Start >= at:
			s.Start += n
			s.End += n
		case s.Start < at && at < s.End:
			s.End += n
		}
	}
	st.resort()
}

// ClipForDelete renumbers spans after the text [at, at+n) was deleted.
// Spans fully inside the deleted range are removed; partially
// overlapping spans lose their overlapping portion; spans beyond the
// range shift back. A span clipped to zero width is removed rather
// than kept as an empty marker.
func (st *Store) ClipForDelete(at, n int) {
	if n <= 0 {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	end := at + n
	kept := st.spans[:0]
	for _, s := range st.spans {
		s.Start = clipOffset(s.Start, at, end, n)
		s.End = clipOffset(s.End, at, end, n)
		if s.Start >= s.End {
			continue
		}
		kept = append(kept, s)
	}
	// Drop trailing references so removed spans can be collected.
	for i := len(kept); i < len(st.spans); i++ {
		st.spans[i] = nil
	}
	st.spans = kept
	st.resort()
}

// clipOffset maps a document offset across the deletion of [at, end).
func clipOffset(offset, at, end, n int) int {
	switch {
	case offset <= at:
		return offset
	case offset >= end:
		return offset - n
	default:
		return at
	}
}
