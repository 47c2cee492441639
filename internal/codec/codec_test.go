package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/dshills/hilite/internal/engine/span"
)

// sampleSpans builds a small, representative span set.
func sampleSpans() []*span.Span {
	return []*span.Span{
		{
			Start: 4, End: 10, Kind: "yellow",
			Style: span.Style{span.AttrBackground: "#ffff88"},
		},
		{
			Start: 8, End: 30, Kind: "comment", Note: "multi\nline\nnote",
			Style: span.Style{
				span.AttrBackground: "#ffdd77",
				span.AttrWeight:     "bold",
			},
			Interactive: true,
		},
		{
			Start: 50, End: 51, Kind: "font-size",
			Style: span.Style{span.AttrFontSize: "18"},
		},
	}
}

// assertSpansEqual compares two span sets structurally.
func assertSpansEqual(t *testing.T, want, got []*span.Span) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d spans, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Start != w.Start || g.End != w.End {
			t.Errorf("span %d: expected [%d:%d), got [%d:%d)", i, w.Start, w.End, g.Start, g.End)
		}
		if !g.Style.Equal(w.Style) {
			t.Errorf("span %d: style %v != %v", i, g.Style, w.Style)
		}
		if g.Kind != w.Kind {
			t.Errorf("span %d: kind %q != %q", i, g.Kind, w.Kind)
		}
		if g.Note != w.Note {
			t.Errorf("span %d: note %q != %q", i, g.Note, w.Note)
		}
		if g.Interactive != w.Interactive {
			t.Errorf("span %d: interactive %v != %v", i, g.Interactive, w.Interactive)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	var c Codec

	t.Run("sample set", func(t *testing.T) {
		want := sampleSpans()
		got, err := c.Deserialize(c.Serialize(want))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		assertSpansEqual(t, want, got)
	})

	t.Run("empty set", func(t *testing.T) {
		got, err := c.Deserialize(c.Serialize(nil))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty set, got %d spans", len(got))
		}
	})

	t.Run("binary-safe note", func(t *testing.T) {
		want := []*span.Span{{
			Start: 0, End: 5, Kind: "comment",
			Note:  "contains the marker " + TokenMarker + " and \x00 bytes and HL1!",
			Style: span.Style{span.AttrBackground: "#ffffff"},
		}}
		got, err := c.Deserialize(c.Serialize(want))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		assertSpansEqual(t, want, got)
	})

	t.Run("order preserved", func(t *testing.T) {
		want := []*span.Span{
			{Start: 30, End: 40, Kind: "a", Style: span.Style{}},
			{Start: 10, End: 20, Kind: "b", Style: span.Style{}},
		}
		got, err := c.Deserialize(c.Serialize(want))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if got[0].Kind != "a" || got[1].Kind != "b" {
			t.Error("encoding must preserve span order")
		}
	})
}

func TestRoundTripCompressed(t *testing.T) {
	c := Codec{CompressAt: 64}

	note := strings.Repeat("the same sentence over and over. ", 100)
	want := []*span.Span{{
		Start: 0, End: 10, Kind: "comment", Note: note,
		Style: span.Style{span.AttrBackground: "#ffffff"},
	}}

	token := c.Serialize(want)
	got, err := c.Deserialize(token)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	assertSpansEqual(t, want, got)

	// A highly repetitive body should actually have been compressed.
	plain := Codec{CompressAt: -1}
	if len(token) >= len(plain.Serialize(want)) {
		t.Error("expected compressed token to be smaller")
	}
}

func TestTokenIsSingleLine(t *testing.T) {
	var c Codec
	token := c.Serialize(sampleSpans())
	if strings.ContainsAny(token, "\n\r \t") {
		t.Error("token must be a single self-delimited text word")
	}
	if !strings.HasPrefix(token, TokenPrefix) {
		t.Errorf("token should start with %q", TokenPrefix)
	}
}

func TestDeserializeCorruption(t *testing.T) {
	var c Codec
	token := c.Serialize(sampleSpans())

	assertCorrupt := func(t *testing.T, input string) {
		t.Helper()
		_, err := c.Deserialize(input)
		var corrupt *CorruptDataError
		if !errors.As(err, &corrupt) {
			t.Fatalf("expected CorruptDataError, got %v", err)
		}
	}

	t.Run("missing prefix", func(t *testing.T) {
		assertCorrupt(t, token[len(TokenPrefix):])
	})

	t.Run("bad base64", func(t *testing.T) {
		assertCorrupt(t, TokenPrefix+"!!!not base64!!!")
	})

	t.Run("truncated", func(t *testing.T) {
		assertCorrupt(t, token[:len(token)/2])
	})

	t.Run("flipped byte fails digest", func(t *testing.T) {
		raw := []byte(token)
		i := len(TokenPrefix) + 10
		if raw[i] == 'A' {
			raw[i] = 'B'
		} else {
			raw[i] = 'A'
		}
		assertCorrupt(t, string(raw))
	})

	t.Run("empty string", func(t *testing.T) {
		assertCorrupt(t, "")
	})
}

// forgeToken frames an arbitrary body with a valid digest, so the
// decode path sees it as intact and must reject it on structure alone.
func forgeToken(body []byte) string {
	sum := blake3.Sum256(body)
	frame := append([]byte{0}, body...)
	frame = append(frame, sum[:digestLen]...)
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(frame)
}

func TestDeserializeRejectsForgedCounts(t *testing.T) {
	var c Codec

	assertCorrupt := func(t *testing.T, body []byte) {
		t.Helper()
		spans, err := c.Deserialize(forgeToken(body))
		var corrupt *CorruptDataError
		if !errors.As(err, &corrupt) {
			t.Fatalf("expected CorruptDataError, got %v", err)
		}
		if spans != nil {
			t.Errorf("got %d spans from a forged token", len(spans))
		}
	}

	t.Run("huge span count", func(t *testing.T) {
		assertCorrupt(t, binary.AppendUvarint(nil, 1<<62))
	})

	t.Run("huge attribute count", func(t *testing.T) {
		body := binary.AppendUvarint(nil, 1) // one span
		body = binary.AppendUvarint(body, 0) // start
		body = binary.AppendUvarint(body, 4) // length
		body = binary.AppendUvarint(body, 1<<62)
		assertCorrupt(t, body)
	})

	t.Run("start overflows int", func(t *testing.T) {
		body := binary.AppendUvarint(nil, 1)
		body = binary.AppendUvarint(body, 1<<63)
		body = binary.AppendUvarint(body, 4)
		body = append(body, make([]byte, minSpanBytes)...)
		assertCorrupt(t, body)
	})

	t.Run("length overflows int", func(t *testing.T) {
		body := binary.AppendUvarint(nil, 1)
		body = binary.AppendUvarint(body, 4)
		body = binary.AppendUvarint(body, math.MaxUint64)
		body = append(body, make([]byte, minSpanBytes)...)
		assertCorrupt(t, body)
	})

	t.Run("huge string length", func(t *testing.T) {
		body := binary.AppendUvarint(nil, 1)
		body = binary.AppendUvarint(body, 0)     // start
		body = binary.AppendUvarint(body, 4)     // length
		body = binary.AppendUvarint(body, 0)     // no attributes
		body = binary.AppendUvarint(body, 1<<62) // kind length
		assertCorrupt(t, body)
	})
}
