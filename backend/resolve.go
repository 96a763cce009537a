package backend

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/JakeFAU/pacer/config"
)

// RichName is the registry name the interactive widget backend claims.
// Importing github.com/JakeFAU/pacer/backend/richterm registers it.
const RichName = "richterm"

// Warning is a non-fatal advisory emitted while resolving a backend, kept
// as a dedicated type so embedders can tell it apart from ordinary errors.
type Warning struct {
	// Reason explains why resolution degraded.
	Reason string
}

// Error implements error.
func (w Warning) Error() string { return "pacer: " + w.Reason }

// OnWarning receives resolution advisories. The default prints to standard
// error; tests and embedders may replace it. At most one warning is emitted
// per process.
var OnWarning = func(w Warning) { fmt.Fprintln(os.Stderr, w.Error()) }

var warnOnce sync.Once

func warnf(format string, args ...any) {
	warnOnce.Do(func() {
		OnWarning(Warning{Reason: fmt.Sprintf(format, args...)})
	})
}

// Resolve picks the backend best suited to the current environment. It
// never fails: configuration or probing trouble degrades to the standard
// backend. The adapter calls it lazily, at the moment iteration begins, and
// only when the caller supplied no explicit backend.
func Resolve() (b Backend) {
	defer func() {
		if recover() != nil {
			b = Standard()
		}
	}()
	cfg := config.FromEnv()
	if cfg.Disable {
		return Nop()
	}
	if cfg.Backend != "" {
		if forced, ok := Lookup(cfg.Backend); ok {
			return forced
		}
		warnf("backend %q is not linked into this binary; using %q", cfg.Backend, Standard().Name())
		return Standard()
	}
	if !interactive(cfg) {
		return Standard()
	}
	if rich, ok := Lookup(RichName); ok {
		return rich
	}
	warnf("interactive terminal detected but the %q backend is not linked in; using %q (import github.com/JakeFAU/pacer/backend/richterm)",
		RichName, Standard().Name())
	return Standard()
}

// interactive reports whether the session looks like a live terminal.
func interactive(cfg config.Settings) bool {
	switch cfg.Interactive {
	case config.InteractiveAlways:
		return true
	case config.InteractiveNever:
		return false
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stderr) || isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
