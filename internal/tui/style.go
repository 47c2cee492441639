package tui

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/hilite/internal/engine/span"
	"github.com/dshills/hilite/internal/style"
)

// cellStyle maps a merged span style onto a tcell style. Colors
// resolve through the palette; a background without an explicit
// foreground gets a contrasting foreground so text stays readable.
// Box and emboss have no terminal equivalent and degrade to reverse
// video and the kind's own background lightening respectively.
func cellStyle(st span.Style, pal style.Palette) tcell.Style {
	ts := tcell.StyleDefault

	if v, ok := st[span.AttrBackground]; ok {
		hex := pal.Color(v)
		ts = ts.Background(termColor(hex))
		if _, has := st[span.AttrForeground]; !has {
			ts = ts.Foreground(contrastColor(hex))
		}
	}
	if v, ok := st[span.AttrForeground]; ok {
		ts = ts.Foreground(termColor(pal.Color(v)))
	}
	if st[span.AttrWeight] == "bold" {
		ts = ts.Bold(true)
	}
	if st[span.AttrSlant] == "italic" {
		ts = ts.Italic(true)
	}
	if st[span.AttrUnderline] == "on" {
		ts = ts.Underline(true)
	}
	if st[span.AttrStrikethrough] == "on" {
		ts = ts.StrikeThrough(true)
	}
	if st[span.AttrBox] == "box" {
		ts = ts.Reverse(true)
	}
	return ts
}

// mergedStyleAt layers every span covering offset, oldest first, the
// same order the HTML exporter uses.
func mergedStyleAt(spans []*span.Span, offset int) span.Style {
	var covering []*span.Span
	for _, s := range spans {
		if s.Contains(offset) {
			covering = append(covering, s)
		}
	}
	sort.Slice(covering, func(i, j int) bool { return covering[i].ID < covering[j].ID })

	var merged span.Style
	for _, s := range covering {
		if merged == nil {
			merged = s.Style.Clone()
		} else {
			merged.Merge(s.Style)
		}
	}
	return merged
}

// termColor parses a "#rrggbb" value into a terminal color, falling
// back to tcell's name lookup for anything else.
func termColor(v string) tcell.Color {
	if c, err := colorful.Hex(v); err == nil {
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.GetColor(v)
}

// contrastColor picks black or white against the given background by
// perceived lightness.
func contrastColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	l, _, _ := c.Lab()
	if l > 0.5 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
