// Package document provides the offset-addressable text store backing
// one annotation session.
//
// The document package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Offset-validated insert, delete, and replace operations
//   - Edit notification through registered listeners
//   - Word-boundary and line lookup helpers
//   - A dirty flag driving the save path
//
// Basic usage:
//
//	doc := document.FromString("Hello, World!")
//	doc.OnEdit(document.EditListenerFunc(func(at, oldLen, newLen int) {
//	    // Keep dependent state consistent...
//	}))
//	doc.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//
// All offsets are byte offsets in the live document. Listeners are
// notified once per edit, after the text has changed, so dependent
// state (such as annotation spans) can be updated in a single pass.
package document
