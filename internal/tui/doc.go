// Package tui is the terminal viewer for decorated documents. It
// renders the document with span styles mapped onto terminal
// attributes, offers a toggleable span index pane, and restores the
// viewport saved in the editing session.
//
// The viewer is read-only: decoration editing happens through the
// annotate package on the host editor side.
package tui
