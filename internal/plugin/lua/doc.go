// Package lua runs user init scripts that register custom decoration
// kinds. Scripts see a single `hilite` table:
//
//	hilite.register_kind{
//	    name = "warning",
//	    background = hilite.palette("yellow"),
//	    weight = "bold",
//	    note = true,
//	    interactive = true,
//	}
//
// Execution is sandboxed: scripts cannot load files, spawn processes,
// or touch the os/io libraries. A script error aborts the run and is
// reported to the caller; kinds registered before the error remain.
package lua
