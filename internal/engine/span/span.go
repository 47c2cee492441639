package span

// ID is a per-store span identity, stable across offset shifts.
// IDs are not persisted; they are reassigned in document order on load.
type ID uint64

// Span is an annotated range of document text.
// Start and End are byte offsets in the live document, Start <= End,
// with End exclusive. Offsets shift as the document is edited; the
// span's identity is preserved across such shifts.
type Span struct {
	// ID is the store-assigned identity.
	ID ID

	// Start is the inclusive start offset.
	Start int

	// End is the exclusive end offset.
	End int

	// Style holds the span's visual attributes, mutable in place.
	Style Style

	// Kind is the name of the decoration kind that last created or
	// extended this span. Informational only.
	Kind string

	// Note is an optional free-text annotation, possibly multi-line.
	Note string

	// Interactive marks spans whose note is edited by direct
	// interaction (comment and typo kinds).
	Interactive bool

	// seq orders spans by creation time for tie-breaking.
	seq uint64
}

// Len returns the number of bytes the span covers.
func (s *Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies inside the span.
func (s *Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Intersects reports whether the span overlaps [start, end).
func (s *Span) Intersects(start, end int) bool {
	return s.Start < end && start < s.End
}

// Clone returns a deep copy of the span. The copy keeps the ID and
// creation order; it shares nothing with the original.
func (s *Span) Clone() *Span {
	c := *s
	c.Style = s.Style.Clone()
	return &c
}
