package span

import "fmt"

// Attr identifies a style attribute.
type Attr uint8

const (
	// AttrBackground is the background color (hex or palette name).
	AttrBackground Attr = iota

	// AttrForeground is the foreground color.
	AttrForeground

	// AttrWeight is the font weight ("bold").
	AttrWeight

	// AttrSlant is the font slant ("italic").
	AttrSlant

	// AttrUnderline marks underlined text.
	AttrUnderline

	// AttrStrikethrough marks struck-through text.
	AttrStrikethrough

	// AttrBox draws a box around the text ("box" or "emboss").
	AttrBox

	// AttrFontFamily is the font family name.
	AttrFontFamily

	// AttrFontSize is the absolute font size in points (decimal string).
	AttrFontSize

	attrCount
)

// String returns the attribute name used in the codec and config.
func (a Attr) String() string {
	switch a {
	case AttrBackground:
		return "background"
	case AttrForeground:
		return "foreground"
	case AttrWeight:
		return "weight"
	case AttrSlant:
		return "slant"
	case AttrUnderline:
		return "underline"
	case AttrStrikethrough:
		return "strikethrough"
	case AttrBox:
		return "box"
	case AttrFontFamily:
		return "font-family"
	case AttrFontSize:
		return "font-size"
	default:
		return "unknown"
	}
}

// ParseAttr converts an attribute name back to an Attr.
func ParseAttr(name string) (Attr, error) {
	for a := Attr(0); a < attrCount; a++ {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown style attribute %q", name)
}

// Valid reports whether the attribute is a known attribute.
func (a Attr) Valid() bool {
	return a < attrCount
}

// Style is a mutable mapping of style attributes to values.
// Values are strings: colors as "#rrggbb" or palette names, weight
// "bold", slant "italic", box "box" or "emboss", font size as a
// decimal integer.
type Style map[Attr]string

// Merge overlays patch onto the style. Patch values overwrite existing
// values for the same attribute; attributes not in the patch are kept.
func (s Style) Merge(patch Style) {
	for attr, val := range patch {
		s[attr] = val
	}
}

// Clone returns an independent copy of the style.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	c := make(Style, len(s))
	for attr, val := range s {
		c[attr] = val
	}
	return c
}

// Equal reports whether two styles hold the same attributes and values.
func (s Style) Equal(other Style) bool {
	if len(s) != len(other) {
		return false
	}
	for attr, val := range s {
		if ov, ok := other[attr]; !ok || ov != val {
			return false
		}
	}
	return true
}
