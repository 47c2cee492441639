package style

import "github.com/dshills/hilite/internal/engine/span"

// Builtin kind names.
const (
	KindBold          = "bold"
	KindItalic        = "italic"
	KindUnderline     = "underline"
	KindStrikethrough = "strikethrough"
	KindBox           = "box"
	KindEmboss        = "emboss"
	KindFont          = "font"
	KindYellow        = "yellow"
	KindBlue          = "blue"
	KindPink          = "pink"
	KindGreen         = "green"
	KindDelete        = "delete"
	KindInsert        = "insert"
	KindBackground    = "background"
	KindForeground    = "foreground"
	KindComment       = "comment"
	KindTypo          = "typo"
)

// registerBuiltins installs the builtin decoration kinds.
func registerBuiltins(r *Registry, p Palette) {
	flat := func(name, color string) Kind {
		return Kind{
			Name: name,
			Base: map[span.Attr]Value{
				span.AttrBackground: Lit(p.Color(color)),
			},
		}
	}

	kinds := []Kind{
		{
			Name: KindBold,
			Base: map[span.Attr]Value{span.AttrWeight: Lit("bold")},
		},
		{
			Name: KindItalic,
			Base: map[span.Attr]Value{span.AttrSlant: Lit("italic")},
		},
		{
			Name: KindUnderline,
			Base: map[span.Attr]Value{span.AttrUnderline: Lit("on")},
		},
		{
			Name: KindStrikethrough,
			Base: map[span.Attr]Value{span.AttrStrikethrough: Lit("on")},
		},
		{
			Name: KindBox,
			Base: map[span.Attr]Value{span.AttrBox: Lit("box")},
		},
		{
			Name: KindEmboss,
			Base: map[span.Attr]Value{
				span.AttrBox:        Lit("emboss"),
				span.AttrBackground: Lit(Lighten(p.Color("box"), 0.6)),
			},
		},
		{
			Name: KindFont,
			Base: map[span.Attr]Value{span.AttrFontFamily: AskFont("Font family")},
		},
		flat(KindYellow, "yellow"),
		flat(KindBlue, "blue"),
		flat(KindPink, "pink"),
		flat(KindGreen, "green"),
		{
			Name: KindDelete,
			Base: map[span.Attr]Value{
				span.AttrStrikethrough: Lit("on"),
				span.AttrForeground:    Lit(p.Color("delete")),
			},
		},
		{
			Name: KindInsert,
			Base: map[span.Attr]Value{
				span.AttrUnderline:  Lit("on"),
				span.AttrForeground: Lit(p.Color("insert")),
			},
		},
		{
			Name: KindBackground,
			Base: map[span.Attr]Value{span.AttrBackground: AskColor("Background color")},
		},
		{
			Name: KindForeground,
			Base: map[span.Attr]Value{span.AttrForeground: AskColor("Foreground color")},
		},
		{
			Name: KindComment,
			Base: map[span.Attr]Value{
				span.AttrBackground: Lit(p.Color("comment")),
			},
			Note: Ask(func(pr Prompter) (string, error) {
				return pr.ReadNote("Comment", "")
			}),
			Interactive: true,
		},
		{
			Name: KindTypo,
			Base: map[span.Attr]Value{
				span.AttrBackground: Lit(p.Color("typo")),
			},
			Note:        Lit("typo."),
			Interactive: true,
		},
	}

	for _, k := range kinds {
		// Builtins are well-formed; Register only rejects empty kinds.
		_ = r.Register(k)
	}
}
