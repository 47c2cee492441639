package export

import (
	"strings"
	"testing"

	"github.com/dshills/hilite/internal/codec"
	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

func TestRenderFragmentPlainText(t *testing.T) {
	got := RenderFragment("no spans here", nil)
	if got != "no spans here" {
		t.Errorf("expected plain text, got %q", got)
	}
}

func TestRenderFragmentEscapes(t *testing.T) {
	got := RenderFragment("a < b & c", nil)
	if got != "a &lt; b &amp; c" {
		t.Errorf("expected escaped text, got %q", got)
	}
}

func TestRenderFragmentSingleSpan(t *testing.T) {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 6, End: 11, Kind: "yellow",
		Style: span.Style{span.AttrBackground: "#ffff88"},
	})

	got := RenderFragment("hello world after", st.All())
	want := `hello <span style="background-color:#ffff88">world</span> after`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderFragmentNoteBecomesTitle(t *testing.T) {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 0, End: 5, Kind: "comment", Note: `say "hi"`,
		Style: span.Style{span.AttrBackground: "#ffdd77"},
	})

	got := RenderFragment("hello", st.All())
	if !strings.Contains(got, `title="say &#34;hi&#34;"`) {
		t.Errorf("expected escaped title attribute, got %q", got)
	}
}

func TestRenderFragmentOverlapLayering(t *testing.T) {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 0, End: 10, Kind: "yellow",
		Style: span.Style{span.AttrBackground: "#ffff88"},
	})
	st.Insert(&span.Span{
		Start: 5, End: 15, Kind: "green",
		Style: span.Style{span.AttrBackground: "#aaffaa", span.AttrWeight: "bold"},
	})

	got := RenderFragment("0123456789abcdefghij", st.All())

	// Three styled segments: [0,5) yellow, [5,10) green-over-yellow,
	// [10,15) green, then plain tail.
	if !strings.Contains(got, `<span style="background-color:#ffff88">01234</span>`) {
		t.Errorf("first segment wrong: %q", got)
	}
	if !strings.Contains(got, `<span style="background-color:#aaffaa;font-weight:bold">56789</span>`) {
		t.Errorf("overlap should layer the newer span on top: %q", got)
	}
	if !strings.Contains(got, `<span style="background-color:#aaffaa;font-weight:bold">abcde</span>`) {
		t.Errorf("third segment wrong: %q", got)
	}
	if !strings.HasSuffix(got, "fghij") {
		t.Errorf("tail should be plain: %q", got)
	}
}

func TestRenderFragmentDecorationsToCSS(t *testing.T) {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 0, End: 4, Kind: "delete",
		Style: span.Style{
			span.AttrStrikethrough: "on",
			span.AttrUnderline:     "on",
			span.AttrSlant:         "italic",
			span.AttrBox:           "box",
			span.AttrFontFamily:    "monospace",
			span.AttrFontSize:      "18",
		},
	})

	got := RenderFragment("text", st.All())
	for _, want := range []string{
		"text-decoration:underline line-through",
		"font-style:italic",
		"border:1px solid",
		"font-family:monospace",
		"font-size:18pt",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected CSS %q in %q", want, got)
		}
	}
}

func TestRenderStripsMetadata(t *testing.T) {
	doc := document.FromString("body text\n")
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 0, End: 4, Kind: "yellow",
		Style: span.Style{span.AttrBackground: "#ffff88"},
	})
	var c codec.Codec
	if err := c.Save(doc, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := Render(doc, st)
	if strings.Contains(got, codec.TokenMarker) || strings.Contains(got, codec.Directive) {
		t.Error("rendered HTML must not include the persisted metadata")
	}
	if !strings.Contains(got, "<pre class=\"hilite\">") {
		t.Error("expected page scaffolding")
	}
	if !strings.Contains(got, "body text") {
		t.Error("expected document text in output")
	}
}

func TestRenderFragmentSpanBeyondText(t *testing.T) {
	st := span.NewStore()
	st.Insert(&span.Span{
		Start: 3, End: 50, Kind: "yellow",
		Style: span.Style{span.AttrBackground: "#ffff88"},
	})

	got := RenderFragment("short", st.All())
	if !strings.Contains(got, `>rt</span>`) {
		t.Errorf("span should clip to the text, got %q", got)
	}
}
