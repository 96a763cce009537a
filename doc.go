// Package pacer wraps ordinary Go iteration with terminal progress
// reporting. Its functions mirror the shapes of everyday loops (counted
// enumeration, zips, mapped sequences, Cartesian products, integer ranges)
// and return lazy iter sequences that advance a progress
// bar as they are consumed. Consuming only a prefix touches only that
// prefix of the inputs, so breaking out of a loop is cheap and releases the
// bar immediately.
//
// The rendering backend is chosen per call: an explicit WithBackend wins,
// otherwise the environment is probed lazily at the moment iteration begins
// (see the backend package). Importing pacer links in the standard console
// backend; the richer multi-bar widget backend is opt-in via a blank import
// of backend/richterm.
//
// Log lines and active bars coexist through the logredirect package, which
// temporarily funnels console log output through a backend's safe-write
// primitive and restores the original configuration on every exit path.
package pacer

import (
	// The standard rendering backend registers itself on import so that
	// auto-selection always has a usable fallback.
	_ "github.com/JakeFAU/pacer/backend/console"
)
