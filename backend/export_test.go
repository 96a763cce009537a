package backend

import "sync"

// ResetWarnings clears the warn-once guard so tests can observe warnings.
func ResetWarnings() { warnOnce = sync.Once{} }

// Unregister removes a backend registered by a test.
func Unregister(name string) {
	regMu.Lock()
	defer regMu.Unlock()
	delete(backends, name)
}
