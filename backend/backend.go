// Package backend defines the progress-bar contract consumed by pacer's
// iteration adapter, a named registry of rendering implementations, and the
// environment-based selection of a default. Rendering itself lives in the
// subpackages; this package only brokers between them and the adapter.
package backend

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Options configures a single bar. Backends ignore fields they do not
// understand; Extra is forwarded verbatim without interpretation.
type Options struct {
	// Total is the expected number of items. Negative means unknown, which
	// puts the bar into indeterminate mode.
	Total int64
	// Description is rendered alongside the bar.
	Description string
	// Writer is the destination stream. Nil selects the backend default,
	// standard error.
	Writer io.Writer
	// Extra carries backend-specific settings the adapter passes through
	// untouched.
	Extra map[string]any
}

// Bar is one live progress indicator. Implementations must tolerate Add and
// Finish being called after Finish.
type Bar interface {
	// Add advances the bar by n items.
	Add(n int) error
	// Finish completes the bar and releases its resources.
	Finish() error
}

// Backend constructs bars and owns the primitives shared by every bar of
// one rendering engine: the safe-write path and the cross-bar lock.
type Backend interface {
	// Name reports the registry name.
	Name() string
	// NewBar builds a bar from opts. It must not fail; misconfiguration
	// degrades to an unstyled bar.
	NewBar(opts Options) Bar
	// Write prints msg followed by a newline to w without corrupting any
	// active bar. A nil w selects the backend's default stream.
	Write(w io.Writer, msg string) error
	// Lock returns the mutual-exclusion primitive shared by this backend's
	// bars.
	Lock() sync.Locker
	// SetLock replaces the shared lock.
	SetLock(l sync.Locker)
}

// nop renders nothing. It backs Nop and serves as the fallback of last
// resort when no console implementation is linked into the binary.
var nop = &nopBackend{lock: &sync.Mutex{}}

// Nop returns the backend that renders nothing. Write still prints so that
// redirected log lines are never lost.
func Nop() Backend { return nop }

type nopBackend struct {
	mu   sync.Mutex
	lock sync.Locker
}

func (b *nopBackend) Name() string { return "nop" }

func (b *nopBackend) NewBar(Options) Bar { return nopBar{} }

func (b *nopBackend) Write(w io.Writer, msg string) error {
	if w == nil {
		w = os.Stderr
	}
	if _, err := fmt.Fprintln(w, msg); err != nil {
		return fmt.Errorf("nop write: %w", err)
	}
	return nil
}

func (b *nopBackend) Lock() sync.Locker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lock
}

func (b *nopBackend) SetLock(l sync.Locker) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lock = l
}

type nopBar struct{}

func (nopBar) Add(int) error { return nil }

func (nopBar) Finish() error { return nil }
