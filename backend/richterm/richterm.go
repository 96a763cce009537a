// Package richterm implements pacer's interactive widget backend on top of
// an mpb multi-bar container. Importing it, usually blank, registers it
// under the name "richterm"; the environment selector then prefers it on
// live terminals:
//
//	import _ "github.com/JakeFAU/pacer/backend/richterm"
package richterm

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/JakeFAU/pacer/backend"
)

// Name is the registry name the environment selector looks for.
const Name = backend.RichName

var std = New()

func init() {
	backend.Register(std)
}

// Backend renders bars inside one shared mpb container. The container is
// created on first use so that importing the package costs nothing.
type Backend struct {
	mu       sync.Mutex
	lock     sync.Locker
	output   io.Writer
	width    int
	progress *mpb.Progress
}

// Option customizes a Backend built by New.
type Option func(*Backend)

// WithOutput directs the container at w instead of standard error.
func WithOutput(w io.Writer) Option {
	return func(b *Backend) { b.output = w }
}

// WithWidth sets the container render width.
func WithWidth(n int) Option {
	return func(b *Backend) { b.width = n }
}

// New builds an unregistered instance, mainly for tests that want isolation
// from the shared default.
func New(opts ...Option) *Backend {
	b := &Backend{
		lock:   &sync.Mutex{},
		output: os.Stderr,
		width:  64,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Default returns the shared registered instance.
func Default() *Backend { return std }

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

func (b *Backend) container() *mpb.Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.progress == nil {
		b.progress = mpb.New(
			mpb.WithWidth(b.width),
			mpb.WithOutput(b.output),
		)
	}
	return b.progress
}

// NewBar implements backend.Backend. An unknown total renders as a bar
// whose total grows with progress until Finish completes it.
func (b *Backend) NewBar(opts backend.Options) backend.Bar {
	total := opts.Total
	if total < 0 {
		total = 0
	}
	bar := b.container().New(total,
		mpb.BarStyle(),
		mpb.PrependDecorators(decor.Name(opts.Description)),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)
	return &richBar{bar: bar}
}

// Write implements the safe-write primitive by routing through the
// container, which prints the message above the bars and repaints them.
// The container owns a single output stream, so w is advisory here.
func (b *Backend) Write(_ io.Writer, msg string) error {
	if _, err := io.WriteString(b.container(), msg+"\n"); err != nil {
		return fmt.Errorf("richterm write: %w", err)
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

// Wait blocks until every bar has completed and the container has shut
// down. Callers that finished all their bars use it to flush rendering.
func (b *Backend) Wait() {
	b.mu.Lock()
	p := b.progress
	b.mu.Unlock()
	if p != nil {
		p.Wait()
	}
}

type richBar struct {
	bar  *mpb.Bar
	done sync.Once
}

// Add implements backend.Bar.
func (rb *richBar) Add(n int) error {
	rb.bar.IncrBy(n)
	return nil
}

// Finish implements backend.Bar. A negative SetTotal pins the total to the
// current count, which completes dynamic bars too.
func (rb *richBar) Finish() error {
	rb.done.Do(func() {
		rb.bar.SetTotal(-1, true)
	})
	return nil
}
