// Package span defines annotation spans and the per-document store
// that owns them.
//
// A Span is a styled, position-tracked range of document text with an
// optional free-text note. The Store keeps spans ordered by document
// position, answers containment and intersection queries, and
// renumbers offsets when the backing text is edited (ShiftForInsert,
// ClipForDelete).
//
// Spans may overlap. Lookup by offset prefers the innermost span, and
// among fully overlapping spans the most recently created one. The
// store holds pure span state; it never reads or writes document text.
package span
