package logredirect

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/pacer/backend"
	"github.com/JakeFAU/pacer/backend/console"
)

// Option adjusts Redirect, Scope, and WithBar.
type Option func(*settings)

type settings struct {
	be      backend.Backend
	routers []*Router
	barOpts backend.Options
}

// WithBackend routes redirected records through b instead of the standard
// console backend. Redirection never consults the environment selector;
// funneling console logs is a console concern whatever renders the bars.
func WithBackend(b backend.Backend) Option {
	return func(s *settings) { s.be = b }
}

// WithRouters names the routers WithBar redirects; the default is the
// process-wide Default router.
func WithRouters(routers ...*Router) Option {
	return func(s *settings) { s.routers = routers }
}

// WithBarOptions configures the bar WithBar constructs. Its Total field is
// overwritten by WithBar's total argument.
func WithBarOptions(o backend.Options) Option {
	return func(s *settings) { s.barOpts = o }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	if s.be == nil {
		s.be = console.Default()
	}
	return s
}

// Redirect swaps every router's console cores for a single redirecting core
// bound to the chosen backend, copying the first console core's encoder,
// level, and stream so formatting and verbosity policy are preserved.
// Non-console cores keep their position and run untouched. A nil or empty
// routers slice targets Default().
//
// The returned restore func reinstates each router's captured core list
// verbatim, same cores in the same order. It is idempotent and meant for a
// defer, so restoration happens on every exit path including panics.
func Redirect(routers []*Router, opts ...Option) (restore func()) {
	s := newSettings(opts)
	if len(routers) == 0 {
		routers = []*Router{Default()}
	}
	snapshots := make([][]zapcore.Core, len(routers))
	for i, r := range routers {
		cores := r.Cores()
		snapshots[i] = cores
		rc := newRedirectCore(s.be)
		if con := firstConsole(cores); con != nil {
			rc.enc = con.Encoder().Clone()
			rc.lvl = con.Level()
			rc.stream = con.Stream()
		}
		kept := make([]zapcore.Core, 0, len(cores)+1)
		for _, c := range cores {
			if !IsConsole(c) {
				kept = append(kept, c)
			}
		}
		r.SetCores(append(kept, rc))
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i, r := range routers {
				r.SetCores(snapshots[i])
			}
		})
	}
}

// Scope runs fn with redirection active on the given routers, restoring the
// original cores on every exit path including panics.
func Scope(routers []*Router, fn func(), opts ...Option) {
	restore := Redirect(routers, opts...)
	defer restore()
	fn()
}

// WithBar builds a bar on the redirection backend, activates redirection
// for its lifetime, and hands the bar to fn. Restoration and the bar's
// Finish are both guaranteed even if fn panics.
func WithBar(total int64, fn func(bar backend.Bar), opts ...Option) {
	s := newSettings(opts)
	barOpts := s.barOpts
	barOpts.Total = total
	bar := s.be.NewBar(barOpts)
	defer func() { _ = bar.Finish() }()
	restore := Redirect(s.routers, opts...)
	defer restore()
	fn(bar)
}

// redirectCore encodes entries and forwards the text through the backend's
// safe-write primitive. Encode or write failures are returned to zap, which
// reports them on its own error output instead of crashing the host; panics
// from below are never swallowed.
type redirectCore struct {
	be     backend.Backend
	enc    zapcore.Encoder
	lvl    zapcore.LevelEnabler
	stream io.Writer
}

func newRedirectCore(be backend.Backend) *redirectCore {
	return &redirectCore{
		be:     be,
		enc:    zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		lvl:    zapcore.DebugLevel,
		stream: os.Stderr,
	}
}

// Enabled implements zapcore.Core.
func (c *redirectCore) Enabled(lvl zapcore.Level) bool { return c.lvl.Enabled(lvl) }

// With implements zapcore.Core by pre-encoding fields into a cloned
// encoder, the standard leaf-core approach.
func (c *redirectCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for i := range fields {
		fields[i].AddTo(clone.enc)
	}
	return &clone
}

// Check implements zapcore.Core.
func (c *redirectCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *redirectCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return fmt.Errorf("encode redirected entry: %w", err)
	}
	msg := strings.TrimRight(buf.String(), "\n")
	buf.Free()
	if err := c.be.Write(c.stream, msg); err != nil {
		return fmt.Errorf("redirected write: %w", err)
	}
	return nil
}

// Sync implements zapcore.Core; the safe-write path flushes per message.
func (c *redirectCore) Sync() error { return nil }

// Stream implements StreamCore, so an active redirecting core is itself
// recognized as the console route by a nested Redirect.
func (c *redirectCore) Stream() io.Writer { return c.stream }

// Encoder implements StreamCore.
func (c *redirectCore) Encoder() zapcore.Encoder { return c.enc }

// Level implements StreamCore.
func (c *redirectCore) Level() zapcore.LevelEnabler { return c.lvl }
