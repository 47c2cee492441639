// Package codec serializes a document's span set into a single
// self-delimited text token and embeds it in the document's trailing
// metadata region so annotations survive reopening the file.
//
// The token is "HL1!" followed by the base64url encoding of a frame:
// one flag byte, a length-prefixed binary body (so notes may contain
// any bytes, including newlines and the framing characters), and an
// 8-byte blake3 digest. Bodies beyond a size threshold are
// xz-compressed. Deserialize(Serialize(s)) is structurally equal to s
// for any span set, including the empty one.
//
// Decoding is strict: truncation, digest mismatch, or trailing bytes
// fail with *CorruptDataError rather than yielding a partial span set,
// because silently accepting corrupt data would mis-decorate the
// document without detection.
package codec
