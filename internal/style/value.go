package style

import "errors"

// ErrCanceled is returned by a Prompter when the user dismisses an
// interactive chooser. The operation that triggered the prompt must
// abort as a no-op.
var ErrCanceled = errors.New("canceled by user")

// Prompter supplies interactively chosen style values. Implementations
// belong to the host surface (TUI dialog, minibuffer, test stub).
type Prompter interface {
	// PickColor asks the user for a color. Returns a "#rrggbb" hex
	// string or a palette color name.
	PickColor(label string) (string, error)

	// PickFont asks the user for a font family name.
	PickFont(label string) (string, error)

	// ReadNote asks the user for free-form note text, pre-filled
	// with initial.
	ReadNote(label, initial string) (string, error)
}

// Value is a style attribute value: either a literal string or a
// deferred interactive provider. Providers are evaluated exactly once,
// at application time, never at registration time.
type Value struct {
	literal  string
	provider func(Prompter) (string, error)
}

// Lit creates a literal value.
func Lit(s string) Value {
	return Value{literal: s}
}

// Ask creates a deferred value resolved through the Prompter.
func Ask(fn func(Prompter) (string, error)) Value {
	return Value{provider: fn}
}

// AskColor creates a deferred color value with the given prompt label.
func AskColor(label string) Value {
	return Ask(func(p Prompter) (string, error) {
		return p.PickColor(label)
	})
}

// AskFont creates a deferred font family value with the given prompt label.
func AskFont(label string) Value {
	return Ask(func(p Prompter) (string, error) {
		return p.PickFont(label)
	})
}

// IsZero reports whether the value is unset.
func (v Value) IsZero() bool {
	return v.literal == "" && v.provider == nil
}

// Resolve produces the concrete string value. Literal values never
// fail; provider values consult the Prompter and may return
// ErrCanceled. A provider value with a nil prompter fails.
func (v Value) Resolve(p Prompter) (string, error) {
	if v.provider == nil {
		return v.literal, nil
	}
	if p == nil {
		return "", errors.New("interactive value requires a prompter")
	}
	return v.provider(p)
}
