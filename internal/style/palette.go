package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps color names to "#rrggbb" values used by the builtin
// kinds. Unknown names fall through to the defaults.
type Palette map[string]string

// DefaultPalette returns the compiled-in color palette.
func DefaultPalette() Palette {
	return Palette{
		"yellow":  "#ffff88",
		"blue":    "#aaddff",
		"pink":    "#ffc0cb",
		"green":   "#aaffaa",
		"comment": "#ffdd77",
		"typo":    "#ff9999",
		"delete":  "#cc3333",
		"insert":  "#33aa33",
		"box":     "#888888",
	}
}

// Color returns the palette entry for name, falling back to the
// default palette, then to name itself (allowing raw hex values).
func (p Palette) Color(name string) string {
	if v, ok := p[name]; ok {
		return v
	}
	if v, ok := DefaultPalette()[name]; ok {
		return v
	}
	return name
}

// Validate checks that every palette entry parses as a hex color.
func (p Palette) Validate() error {
	for name, val := range p {
		if _, err := colorful.Hex(val); err != nil {
			return fmt.Errorf("palette color %q: %w", name, err)
		}
	}
	return nil
}

// Lighten blends a hex color toward white in Lab space.
// Invalid input is returned unchanged.
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	white, _ := colorful.Hex("#ffffff")
	return c.BlendLab(white, amount).Clamped().Hex()
}

// Darken blends a hex color toward black in Lab space.
// Invalid input is returned unchanged.
func Darken(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	black, _ := colorful.Hex("#000000")
	return c.BlendLab(black, amount).Clamped().Hex()
}
