// Package console implements pacer's standard rendering backend on top of
// schollz/progressbar. Importing the package registers it under the name
// "console" and installs it as the standard fallback.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/JakeFAU/pacer/backend"
	"github.com/JakeFAU/pacer/config"
)

// Name is the registry name of the console backend.
const Name = "console"

var std = New()

func init() {
	backend.Register(std)
	backend.SetStandard(std)
}

// Backend renders single-line terminal bars. All bars share one lock so
// that the safe-write path never interleaves with a repaint.
type Backend struct {
	mu     sync.Mutex
	lock   sync.Locker
	active map[*consoleBar]struct{}
}

// New builds an unregistered console backend, mainly for tests that want
// isolation from the shared default.
func New() *Backend {
	return &Backend{
		lock:   &sync.Mutex{},
		active: make(map[*consoleBar]struct{}),
	}
}

// Default returns the shared registered instance.
func Default() *Backend { return std }

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// NewBar implements backend.Backend. Recognized Extra keys are "width"
// (int) and "show_bytes" (bool); anything else is ignored.
func (b *Backend) NewBar(opts backend.Options) backend.Bar {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	width := config.FromEnv().Width
	if v, ok := opts.Extra["width"].(int); ok {
		width = v
	}
	barOpts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWidth(width),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(w, "\n")
		}),
	}
	if v, ok := opts.Extra["show_bytes"].(bool); ok && v {
		barOpts = append(barOpts, progressbar.OptionShowBytes(true))
	}
	if opts.Total < 0 {
		barOpts = append(barOpts, progressbar.OptionSpinnerType(14))
	}
	cb := &consoleBar{
		owner:  b,
		bar:    progressbar.NewOptions64(opts.Total, barOpts...),
		writer: w,
	}
	b.mu.Lock()
	b.active[cb] = struct{}{}
	b.mu.Unlock()
	return cb
}

// Write implements the safe-write primitive: active bars on the target
// stream are cleared, the message is printed, and the bars repaint.
func (b *Backend) Write(w io.Writer, msg string) error {
	if w == nil {
		w = os.Stderr
	}
	lock := b.Lock()
	lock.Lock()
	defer lock.Unlock()
	bars := b.snapshot()
	for _, cb := range bars {
		if cb.writer == w {
			_ = cb.bar.Clear()
		}
	}
	if _, err := fmt.Fprintln(w, msg); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	for _, cb := range bars {
		if cb.writer == w {
			_ = cb.bar.RenderBlank()
		}
	}
	return nil
}

// Lock implements backend.Backend.
func (b *Backend) Lock() sync.Locker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lock
}

// SetLock implements backend.Backend.
func (b *Backend) SetLock(l sync.Locker) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lock = l
}

func (b *Backend) snapshot() []*consoleBar {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*consoleBar, 0, len(b.active))
	for cb := range b.active {
		out = append(out, cb)
	}
	return out
}

func (b *Backend) release(cb *consoleBar) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.active, cb)
}

type consoleBar struct {
	owner  *Backend
	bar    *progressbar.ProgressBar
	writer io.Writer
	done   sync.Once
}

// Add implements backend.Bar.
func (cb *consoleBar) Add(n int) error {
	return cb.bar.Add(n)
}

// Finish implements backend.Bar. Repeated calls finish once.
func (cb *consoleBar) Finish() error {
	var err error
	cb.done.Do(func() {
		err = cb.bar.Finish()
		cb.owner.release(cb)
	})
	return err
}
