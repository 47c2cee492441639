// Package style defines decoration kinds: named, composable templates
// that resolve to span style patches.
//
// A kind's attribute values are either literals or deferred
// interactive providers (color and font pickers, note prompts).
// Providers are evaluated exactly once, when the kind is applied, via
// the Prompter interface supplied by the host surface. If the user
// cancels a prompt, resolution fails with ErrCanceled and the caller
// abandons the whole operation.
//
// The builtin kinds cover weights, slants, underline, strike-through,
// boxes, flat palette colors, interactive color/font choosers, and the
// note-carrying comment and typo kinds. Plugins may register further
// kinds at runtime.
package style
