package style

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/hilite/internal/engine/span"
)

// Kind is a named decoration template. Applying a kind resolves its
// base values into a style patch that is merged into the span at
// point, or used to create a fresh span.
type Kind struct {
	// Name identifies the kind ("bold", "comment", ...).
	Name string

	// Base maps style attributes to literal or interactive values.
	Base map[span.Attr]Value

	// Note, when set, resolves to the span's initial note text.
	Note Value

	// Interactive marks kinds whose spans carry a directly editable
	// note (comment, typo).
	Interactive bool
}

// Extra carries the non-style results of resolving a kind.
type Extra struct {
	// Note is the resolved note text.
	Note string

	// HasNote reports whether the kind supplies a note at all,
	// distinguishing "no note" from an empty one.
	HasNote bool

	// Interactive mirrors Kind.Interactive.
	Interactive bool
}

// Registry holds the table of decoration kinds. Builtins are
// registered at construction; plugins may add custom kinds.
// All methods are thread-safe.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates a registry pre-populated with the builtin kinds
// drawn from the given palette.
func NewRegistry(p Palette) *Registry {
	r := &Registry{kinds: make(map[string]Kind)}
	registerBuiltins(r, p)
	return r
}

// Register adds or replaces a kind.
// Returns an error if the kind has no name or no effect.
func (r *Registry) Register(k Kind) error {
	if k.Name == "" {
		return fmt.Errorf("kind has no name")
	}
	if len(k.Base) == 0 && k.Note.IsZero() {
		return fmt.Errorf("kind %q defines no attributes", k.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
	return nil
}

// Lookup returns the kind with the given name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns all registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve produces the style patch and extra attributes for a kind.
// Interactive values are resolved through the Prompter exactly once.
// On any resolution failure (including ErrCanceled) nothing partial is
// returned: the caller treats the whole application as a no-op.
func (r *Registry) Resolve(name string, p Prompter) (span.Style, Extra, error) {
	k, ok := r.Lookup(name)
	if !ok {
		return nil, Extra{}, fmt.Errorf("unknown decoration kind %q", name)
	}

	patch := make(span.Style, len(k.Base))
	for attr, val := range k.Base {
		s, err := val.Resolve(p)
		if err != nil {
			return nil, Extra{}, err
		}
		patch[attr] = s
	}

	extra := Extra{Interactive: k.Interactive}
	if !k.Note.IsZero() {
		note, err := k.Note.Resolve(p)
		if err != nil {
			return nil, Extra{}, err
		}
		extra.Note = note
		extra.HasNote = true
	}

	return patch, extra, nil
}
