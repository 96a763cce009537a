// Package logredirect temporarily reroutes console log output through a
// progress backend's safe-write primitive so log lines and active bars do
// not interleave. It targets zap loggers whose core is a Router: a tee with
// an ordered, swappable child list, which is what makes scoped redirection
// and exact restoration possible.
package logredirect

import (
	"errors"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Router is a zapcore.Core fanning entries out to an ordered list of child
// cores. The list can be swapped at runtime; loggers built as
// zap.New(router) observe swaps immediately.
type Router struct {
	mu    sync.RWMutex
	cores []zapcore.Core
}

// NewRouter builds a Router over the given cores, in order.
func NewRouter(cores ...zapcore.Core) *Router {
	return &Router{cores: append([]zapcore.Core(nil), cores...)}
}

var defaultRouter = NewRouter()

// Default returns the process-wide router, the analog of a root logger.
// Applications that want Redirect(nil) to reach them build their logger
// over it: zap.New(logredirect.Default()).
func Default() *Router { return defaultRouter }

// Cores returns a copy of the current core list in order.
func (r *Router) Cores() []zapcore.Core {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]zapcore.Core(nil), r.cores...)
}

// SetCores replaces the core list.
func (r *Router) SetCores(cores []zapcore.Core) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cores = append([]zapcore.Core(nil), cores...)
}

// Append adds a core at the end of the list.
func (r *Router) Append(core zapcore.Core) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cores = append(r.cores, core)
}

// Enabled implements zapcore.Core.
func (r *Router) Enabled(lvl zapcore.Level) bool {
	for _, c := range r.Cores() {
		if c.Enabled(lvl) {
			return true
		}
	}
	return false
}

// With implements zapcore.Core. The returned core keeps consulting the
// router, so redirection applies to loggers derived before it started.
func (r *Router) With(fields []zapcore.Field) zapcore.Core {
	return &routedCore{router: r, fields: append([]zapcore.Field(nil), fields...)}
}

// Check implements zapcore.Core.
func (r *Router) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(ent.Level) {
		return ce.AddCore(ent, r)
	}
	return ce
}

// Write implements zapcore.Core, fanning the entry out to every enabled
// child and joining their errors.
func (r *Router) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var errs []error
	for _, c := range r.Cores() {
		if !c.Enabled(ent.Level) {
			continue
		}
		if err := c.Write(ent, fields); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sync implements zapcore.Core.
func (r *Router) Sync() error {
	var errs []error
	for _, c := range r.Cores() {
		if err := c.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// routedCore carries With-fields while deferring everything else to the
// router, so core swaps reach derived loggers too.
type routedCore struct {
	router *Router
	fields []zapcore.Field
}

func (c *routedCore) Enabled(lvl zapcore.Level) bool { return c.router.Enabled(lvl) }

func (c *routedCore) With(fields []zapcore.Field) zapcore.Core {
	merged := append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &routedCore{router: c.router, fields: merged}
}

func (c *routedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *routedCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	merged := append(append([]zapcore.Field(nil), c.fields...), fields...)
	return c.router.Write(ent, merged)
}

func (c *routedCore) Sync() error { return c.router.Sync() }
