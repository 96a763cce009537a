package pacer

import (
	"io"

	"github.com/JakeFAU/pacer/backend"
)

// Option adjusts one adapter call. Options the target function does not use
// are ignored; bar-facing options travel to the backend untouched.
type Option func(*options)

type options struct {
	be       backend.Backend
	start    int
	total    int64
	totalSet bool
	repeat   int
	desc     string
	writer   io.Writer
	extra    map[string]any
}

func newOptions(opts []Option) options {
	o := options{repeat: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBackend pins the rendering backend for this call, bypassing
// environment detection entirely.
func WithBackend(b backend.Backend) Option {
	return func(o *options) { o.be = b }
}

// WithStart sets Enumerate's first index. Any integer is valid, including
// negative ones.
func WithStart(n int) Option {
	return func(o *options) { o.start = n }
}

// WithTotal declares the expected item count, overriding anything the
// adapter could derive on its own.
func WithTotal(n int64) Option {
	return func(o *options) {
		o.total = n
		o.totalSet = true
	}
}

// WithRepeat makes Product treat its factor list as repeated n times.
// Values below one yield the empty product.
func WithRepeat(n int) Option {
	return func(o *options) { o.repeat = n }
}

// WithDescription labels the bar.
func WithDescription(s string) Option {
	return func(o *options) { o.desc = s }
}

// WithWriter directs bar output at w instead of the backend default.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithExtra forwards one backend-specific setting verbatim; the adapter
// attaches no meaning to it.
func WithExtra(key string, value any) Option {
	return func(o *options) {
		if o.extra == nil {
			o.extra = make(map[string]any)
		}
		o.extra[key] = value
	}
}

// autoResolve is indirected so tests can prove that supplying an explicit
// backend never triggers environment probing.
var autoResolve = backend.Resolve

// newBar resolves the backend (explicit override first, environment probe
// otherwise) and builds the bar. derivedTotal is what the adapter could
// infer; an explicit WithTotal wins over it.
func (o options) newBar(derivedTotal int64) backend.Bar {
	be := o.be
	if be == nil {
		be = autoResolve()
	}
	total := derivedTotal
	if o.totalSet {
		total = o.total
	}
	return be.NewBar(backend.Options{
		Total:       total,
		Description: o.desc,
		Writer:      o.writer,
		Extra:       o.extra,
	})
}
