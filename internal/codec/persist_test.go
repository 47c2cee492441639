package codec

import (
	"strings"
	"testing"

	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

func newStoreWithSpan(start, end int) *span.Store {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: start, End: end, Kind: "yellow",
		Style: span.Style{span.AttrBackground: "#ffff88"},
	})
	return st
}

func TestSaveWritesTokenAndDirective(t *testing.T) {
	var c Codec
	doc := document.FromString("hello world\n")
	st := newStoreWithSpan(0, 5)

	if err := c.Save(doc, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	text := doc.Text()
	if !strings.Contains(text, TokenMarker+TokenPrefix) {
		t.Error("saved document should contain the token line")
	}
	if !strings.Contains(text, Directive) {
		t.Error("saved document should contain the enabling directive")
	}
	if doc.Dirty() {
		t.Error("Save should clear the dirty flag")
	}
}

func TestSaveReplacesTokenInPlace(t *testing.T) {
	var c Codec
	doc := document.FromString("hello world\n")
	st := newStoreWithSpan(0, 5)

	if err := c.Save(doc, st); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	first := doc.Text()

	st.Insert(&span.Span{
		Start: 6, End: 11, Kind: "bold",
		Style: span.Style{span.AttrWeight: "bold"},
	})
	if err := c.Save(doc, st); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	second := doc.Text()

	if strings.Count(second, TokenMarker) != 1 {
		t.Errorf("re-save must replace the token, found %d markers",
			strings.Count(second, TokenMarker))
	}
	if strings.Count(second, Directive+"\n") != 1 {
		t.Error("re-save must not duplicate the directive")
	}
	if first == second {
		t.Error("token should have changed with the span set")
	}
}

func TestSaveEmptySetCleansUp(t *testing.T) {
	var c Codec
	doc := document.FromString("hello world\n")
	st := newStoreWithSpan(0, 5)

	if err := c.Save(doc, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	st.RemoveAll()
	if err := c.Save(doc, st); err != nil {
		t.Fatalf("cleanup Save failed: %v", err)
	}

	text := doc.Text()
	if strings.Contains(text, TokenMarker) || strings.Contains(text, Directive) {
		t.Errorf("empty set should remove token and directive, got %q", text)
	}
	if text != "hello world\n" {
		t.Errorf("cleanup should restore the original text, got %q", text)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	var c Codec
	doc := document.FromString("hello world\n")
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 0, End: 5, Kind: "comment", Note: "first\nnote",
		Style:       span.Style{span.AttrBackground: "#ffdd77"},
		Interactive: true,
	})
	st.Insert(&span.Span{
		Start: 6, End: 11, Kind: "bold",
		Style: span.Style{span.AttrWeight: "bold"},
	})

	if err := c.Save(doc, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Reload into a fresh store, as on reopening the file.
	reopened := document.FromString(doc.Text())
	fresh := span.NewStore()
	if err := c.Load(reopened, fresh); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := st.All()
	got := fresh.All()
	assertSpansEqual(t, want, got)

	// IDs are reassigned on load, in document order.
	if got[0].ID == 0 || got[1].ID == 0 {
		t.Error("loaded spans should have store-assigned IDs")
	}
}

func TestLoadWithoutToken(t *testing.T) {
	var c Codec
	doc := document.FromString("no annotations here\n")
	st := newStoreWithSpan(0, 2)

	if err := c.Load(doc, st); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("load with no token should leave an empty store, got %d", st.Len())
	}
}

func TestLoadCorruptToken(t *testing.T) {
	var c Codec
	doc := document.FromString("text\n" + TokenMarker + TokenPrefix + "garbage\n")
	st := span.NewStore()

	err := c.Load(doc, st)
	if err == nil {
		t.Fatal("corrupt token should fail the load")
	}
	if st.Len() != 0 {
		t.Error("failed load must not leave a partial span set")
	}
}

func TestLocateToken(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		if _, _, ok := LocateToken("plain text"); ok {
			t.Error("expected no token")
		}
	})

	t.Run("present", func(t *testing.T) {
		text := "body\n" + TokenMarker + "HL1!abc\n" + Directive + "\n"
		start, end, ok := LocateToken(text)
		if !ok {
			t.Fatal("expected to find token")
		}
		if text[start:end] != "HL1!abc" {
			t.Errorf("expected token text, got %q", text[start:end])
		}
	})

	t.Run("marker mid-line is ignored", func(t *testing.T) {
		text := "mentioning " + TokenMarker + "in prose\n"
		if _, _, ok := LocateToken(text); ok {
			t.Error("mid-line marker must not count as a token line")
		}
	})

	t.Run("token at end without newline", func(t *testing.T) {
		text := "body\n" + TokenMarker + "HL1!xyz"
		start, end, ok := LocateToken(text)
		if !ok || text[start:end] != "HL1!xyz" {
			t.Errorf("expected trailing token, got ok=%v %q", ok, text[start:end])
		}
	})
}
