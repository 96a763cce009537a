package backend

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	regMu    sync.RWMutex
	backends = make(map[string]Backend)
	standard Backend
)

// Register makes a backend available for lookup by name. It panics if the
// backend is nil, unnamed, or already registered, mirroring database/sql
// driver registration. Backends register themselves from init so that a
// plain import is all a binary needs.
func Register(b Backend) {
	if b == nil || b.Name() == "" {
		panic("backend: Register with nil backend or empty name")
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := backends[b.Name()]; dup {
		panic(fmt.Sprintf("backend: Register called twice for %q", b.Name()))
	}
	backends[b.Name()] = b
}

// SetStandard installs b as the fallback used when no richer backend
// applies. The console package calls this on import.
func SetStandard(b Backend) {
	regMu.Lock()
	defer regMu.Unlock()
	standard = b
}

// Standard returns the fallback backend: whatever SetStandard installed, or
// the built-in no-op backend when no console implementation is linked in.
func Standard() Backend {
	regMu.RLock()
	defer regMu.RUnlock()
	if standard != nil {
		return standard
	}
	return nop
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// Names lists registered backend names in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}
