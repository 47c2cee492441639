// Package annotate is the behavioral surface of the highlighting
// engine: it creates and merges decoration spans, keeps the span set
// consistent while the document is edited, and implements span-aware
// copy, cut, paste, and kill-line.
//
// The Annotator applies decoration kinds. Applying at a point that
// already lies inside a span merges the resolved style into that span
// instead of stacking a new one, so bold applied to a yellow span
// yields one bold-and-yellow span. Operations that cannot find a
// target are silent no-ops; they are routinely invoked speculatively
// by interactive commands.
//
// The Adapter listens to document edits and renumbers span offsets in
// one pass per edit. The Editor wraps the clipboard-shaped operations,
// switching to span-aware variants only for ranges that actually
// contain spans, per call, and deferring to the plain document
// primitives otherwise.
//
// A Session owns the last copy payload and the saved view state for
// one document, so concurrent documents never share clipboard state.
package annotate
