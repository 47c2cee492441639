package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"math"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/dshills/hilite/internal/engine/span"
)

// TokenPrefix starts every encoded token and doubles as the format
// version marker.
const TokenPrefix = "HL1!"

// DefaultCompressAt is the body size in bytes above which the frame
// body is xz-compressed.
const DefaultCompressAt = 4096

// digestLen is the number of blake3 digest bytes in the frame trailer.
const digestLen = 8

// frame flag bits.
const flagCompressed byte = 1 << 0

// Codec serializes span sets to self-delimited text tokens and back.
// The zero value is usable; CompressAt tunes when bodies are
// compressed.
type Codec struct {
	// CompressAt is the body size threshold for xz compression.
	// Zero means DefaultCompressAt; negative disables compression.
	CompressAt int
}

// span flag bits.
const spanFlagInteractive byte = 1 << 0

// Serialize encodes a span set into a single self-delimited token.
// The token is plain base64url text, safe to embed inside a one-line
// comment regardless of what the notes contain. Spans are encoded in
// the given order, which Deserialize preserves.
func (c *Codec) Serialize(spans []*span.Span) string {
	body := encodeBody(spans)

	flags := byte(0)
	threshold := c.CompressAt
	if threshold == 0 {
		threshold = DefaultCompressAt
	}
	if threshold > 0 && len(body) > threshold {
		if compressed, err := compress(body); err == nil && len(compressed) < len(body) {
			body = compressed
			flags |= flagCompressed
		}
	}

	sum := blake3.Sum256(body)

	frame := make([]byte, 0, 1+len(body)+digestLen)
	frame = append(frame, flags)
	frame = append(frame, body...)
	frame = append(frame, sum[:digestLen]...)

	return TokenPrefix + base64.RawURLEncoding.EncodeToString(frame)
}

// Deserialize decodes a token produced by Serialize. Any fault
// (missing prefix, bad base64, digest mismatch, truncated or trailing
// bytes) returns a *CorruptDataError and no spans.
func (c *Codec) Deserialize(token string) ([]*span.Span, error) {
	if len(token) < len(TokenPrefix) || token[:len(TokenPrefix)] != TokenPrefix {
		return nil, corrupt(-1, "missing token prefix", nil)
	}

	frame, err := base64.RawURLEncoding.DecodeString(token[len(TokenPrefix):])
	if err != nil {
		return nil, corrupt(-1, "invalid base64 framing", err)
	}
	if len(frame) < 1+digestLen {
		return nil, corrupt(-1, "frame too short", nil)
	}

	flags := frame[0]
	body := frame[1 : len(frame)-digestLen]
	digest := frame[len(frame)-digestLen:]

	sum := blake3.Sum256(body)
	if !bytes.Equal(sum[:digestLen], digest) {
		return nil, corrupt(-1, "integrity digest mismatch", nil)
	}

	if flags&flagCompressed != 0 {
		body, err = decompress(body)
		if err != nil {
			return nil, corrupt(-1, "corrupt compressed body", err)
		}
	}

	return decodeBody(body)
}

// encodeBody produces the length-prefixed binary span encoding.
func encodeBody(spans []*span.Span) []byte {
	var buf []byte
	buf = binary.AppendUvarint(buf, uint64(len(spans)))

	for _, s := range spans {
		buf = binary.AppendUvarint(buf, uint64(s.Start))
		buf = binary.AppendUvarint(buf, uint64(s.End-s.Start))

		buf = binary.AppendUvarint(buf, uint64(len(s.Style)))
		for attr := span.Attr(0); attr.Valid(); attr++ {
			val, ok := s.Style[attr]
			if !ok {
				continue
			}
			buf = append(buf, byte(attr))
			buf = appendString(buf, val)
		}

		buf = appendString(buf, s.Kind)
		buf = appendString(buf, s.Note)

		var fl byte
		if s.Interactive {
			fl |= spanFlagInteractive
		}
		buf = append(buf, fl)
	}
	return buf
}

// minSpanBytes is the smallest possible encoded span: one byte each
// for start, length, attribute count, kind length, note length, and
// the flag byte.
const minSpanBytes = 6

// maxOffset bounds decoded span offsets so they always fit an int.
const maxOffset = uint64(math.MaxInt)

// decodeBody is the inverse of encodeBody. Counts and lengths in the
// body are untrusted: each is checked against the remaining bytes
// before any allocation sized from it.
func decodeBody(body []byte) ([]*span.Span, error) {
	r := &reader{buf: body}

	count, err := r.uvarint("span count")
	if err != nil {
		return nil, err
	}
	if count > uint64(len(r.buf)-r.pos)/minSpanBytes {
		return nil, corrupt(r.pos, "span count exceeds body size", nil)
	}

	spans := make([]*span.Span, 0, count)
	for i := uint64(0); i < count; i++ {
		start, err := r.uvarint("span start")
		if err != nil {
			return nil, err
		}
		length, err := r.uvarint("span length")
		if err != nil {
			return nil, err
		}
		if start > maxOffset || length > maxOffset-start {
			return nil, corrupt(r.pos, "span range out of bounds", nil)
		}

		attrCount, err := r.uvarint("attribute count")
		if err != nil {
			return nil, err
		}
		// Each attribute takes at least an id byte and a length byte.
		if attrCount > uint64(len(r.buf)-r.pos)/2 {
			return nil, corrupt(r.pos, "attribute count exceeds body size", nil)
		}
		style := make(span.Style, attrCount)
		for j := uint64(0); j < attrCount; j++ {
			ab, err := r.readByte("attribute id")
			if err != nil {
				return nil, err
			}
			attr := span.Attr(ab)
			if !attr.Valid() {
				return nil, corrupt(r.pos-1, "unknown attribute id", nil)
			}
			val, err := r.readString("attribute value")
			if err != nil {
				return nil, err
			}
			style[attr] = val
		}

		kind, err := r.readString("kind")
		if err != nil {
			return nil, err
		}
		note, err := r.readString("note")
		if err != nil {
			return nil, err
		}
		fl, err := r.readByte("span flags")
		if err != nil {
			return nil, err
		}

		spans = append(spans, &span.Span{
			Start:       int(start),
			End:         int(start + length),
			Style:       style,
			Kind:        kind,
			Note:        note,
			Interactive: fl&spanFlagInteractive != 0,
		})
	}

	if r.pos != len(r.buf) {
		return nil, corrupt(r.pos, "trailing bytes after span data", nil)
	}
	return spans, nil
}

// appendString appends a length-prefixed string.
func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// reader is a bounds-checked cursor over the frame body.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) uvarint(what string) (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, corrupt(r.pos, "truncated "+what, nil)
	}
	r.pos += n
	return v, nil
}

func (r *reader) readByte(what string) (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, corrupt(r.pos, "truncated "+what, nil)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readString(what string) (string, error) {
	n, err := r.uvarint(what + " length")
	if err != nil {
		return "", err
	}
	if uint64(len(r.buf)-r.pos) < n {
		return "", corrupt(r.pos, "truncated "+what, nil)
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

// compress xz-compresses a frame body.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompress reverses compress.
func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
