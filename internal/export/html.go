// Package export renders a decorated document to static HTML markup.
// It consumes the span store purely through its ordered enumeration,
// flattening overlapping spans at each style boundary with the most
// recently created span layered on top.
package export

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/hilite/internal/codec"
	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
)

// Render produces a complete HTML page for the document with its
// spans as inline-styled markup. The persisted metadata region is not
// rendered.
func Render(doc *document.Document, store *span.Store) string {
	text := doc.Text()
	text = stripMetadata(text)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>hilite export</title>\n</head>\n<body>\n")
	b.WriteString("<pre class=\"hilite\">")
	b.WriteString(RenderFragment(text, store.All()))
	b.WriteString("</pre>\n</body>\n</html>\n")
	return b.String()
}

// RenderFragment renders text with the given spans as HTML span
// elements, without any page scaffolding. Span offsets beyond the text
// are clipped; zero-width segments are skipped.
func RenderFragment(text string, spans []*span.Span) string {
	bounds := boundaries(text, spans)

	var b strings.Builder
	for i := 0; i+1 < len(bounds); i++ {
		segStart, segEnd := bounds[i], bounds[i+1]
		if segStart >= segEnd {
			continue
		}
		seg := html.EscapeString(text[segStart:segEnd])

		active := activeSpans(spans, segStart, len(text))
		if len(active) == 0 {
			b.WriteString(seg)
			continue
		}

		b.WriteString("<span")
		if css := cssFor(active); css != "" {
			b.WriteString(" style=\"")
			b.WriteString(css)
			b.WriteString("\"")
		}
		if note := topNote(active); note != "" {
			b.WriteString(" title=\"")
			b.WriteString(html.EscapeString(note))
			b.WriteString("\"")
		}
		b.WriteString(">")
		b.WriteString(seg)
		b.WriteString("</span>")
	}
	return b.String()
}

// boundaries returns the sorted, deduplicated segment boundaries:
// text start and end plus every clipped span edge.
func boundaries(text string, spans []*span.Span) []int {
	set := map[int]bool{0: true, len(text): true}
	for _, s := range spans {
		set[clip(s.Start, len(text))] = true
		set[clip(s.End, len(text))] = true
	}
	bounds := make([]int, 0, len(set))
	for b := range set {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)
	return bounds
}

func clip(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}

// activeSpans returns the spans covering offset, oldest first, so that
// later layers overwrite earlier ones when styles are merged.
func activeSpans(spans []*span.Span, offset, n int) []*span.Span {
	var active []*span.Span
	for _, s := range spans {
		if clip(s.Start, n) <= offset && offset < clip(s.End, n) {
			active = append(active, s)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].ID < active[j].ID
	})
	return active
}

// topNote returns the note of the most recently created active span
// that has one.
func topNote(active []*span.Span) string {
	for i := len(active) - 1; i >= 0; i-- {
		if active[i].Note != "" {
			return active[i].Note
		}
	}
	return ""
}

// cssFor merges the active spans' styles in layer order and renders
// the result as inline CSS.
func cssFor(active []*span.Span) string {
	merged := make(span.Style)
	for _, s := range active {
		merged.Merge(s.Style)
	}

	var parts []string
	add := func(prop, val string) {
		parts = append(parts, prop+":"+val)
	}

	if v, ok := merged[span.AttrBackground]; ok {
		add("background-color", v)
	}
	if v, ok := merged[span.AttrForeground]; ok {
		add("color", v)
	}
	if v, ok := merged[span.AttrWeight]; ok {
		add("font-weight", v)
	}
	if v, ok := merged[span.AttrSlant]; ok {
		add("font-style", v)
	}

	var deco []string
	if merged[span.AttrUnderline] != "" {
		deco = append(deco, "underline")
	}
	if merged[span.AttrStrikethrough] != "" {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		add("text-decoration", strings.Join(deco, " "))
	}

	switch merged[span.AttrBox] {
	case "box":
		add("border", "1px solid")
	case "emboss":
		add("border", "1px outset")
	}

	if v, ok := merged[span.AttrFontFamily]; ok {
		add("font-family", v)
	}
	if v, ok := merged[span.AttrFontSize]; ok {
		if _, err := strconv.Atoi(v); err == nil {
			add("font-size", v+"pt")
		}
	}

	return strings.Join(parts, ";")
}

// stripMetadata removes the persisted token and directive lines from
// the rendered text.
func stripMetadata(text string) string {
	for _, prefix := range []string{codec.TokenMarker, codec.Directive} {
		for {
			start, end, ok := findLine(text, prefix)
			if !ok {
				break
			}
			text = text[:start] + text[end:]
		}
	}
	return text
}

// findLine locates a whole line starting with prefix, returning the
// line bounds including the trailing newline.
func findLine(text, prefix string) (int, int, bool) {
	idx := 0
	for {
		i := strings.Index(text[idx:], prefix)
		if i < 0 {
			return 0, 0, false
		}
		i += idx
		if i == 0 || text[i-1] == '\n' {
			end := i
			for end < len(text) && text[end] != '\n' {
				end++
			}
			if end < len(text) {
				end++
			}
			return i, end, true
		}
		idx = i + 1
	}
}
