package logredirect

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// StreamCore is the capability set redirection needs from a console-style
// core: where it writes, how it formats, and what it lets through. Both
// ConsoleCore and the redirecting core satisfy it.
type StreamCore interface {
	zapcore.Core
	// Stream reports the destination writer.
	Stream() io.Writer
	// Encoder reports the entry encoder.
	Encoder() zapcore.Encoder
	// Level reports the level enabler.
	Level() zapcore.LevelEnabler
}

// ConsoleCore is a leaf core that remembers its destination stream so the
// console predicate can identify it by stream identity rather than by
// concrete type.
type ConsoleCore struct {
	zapcore.Core
	enc    zapcore.Encoder
	lvl    zapcore.LevelEnabler
	stream io.Writer
}

// NewConsoleCore builds a core writing enc-formatted entries to stream.
func NewConsoleCore(enc zapcore.Encoder, stream io.Writer, lvl zapcore.LevelEnabler) *ConsoleCore {
	return &ConsoleCore{
		Core:   zapcore.NewCore(enc, zapcore.AddSync(stream), lvl),
		enc:    enc,
		lvl:    lvl,
		stream: stream,
	}
}

// Stream implements StreamCore.
func (c *ConsoleCore) Stream() io.Writer { return c.stream }

// Encoder implements StreamCore.
func (c *ConsoleCore) Encoder() zapcore.Encoder { return c.enc }

// Level implements StreamCore.
func (c *ConsoleCore) Level() zapcore.LevelEnabler { return c.lvl }

// IsConsole reports whether core writes to one of the process's standard
// streams. Only cores exposing the StreamCore capabilities can qualify;
// everything else (files, buffers, network sinks) is left alone by
// redirection.
func IsConsole(core zapcore.Core) bool {
	sc, ok := core.(StreamCore)
	if !ok {
		return false
	}
	w := sc.Stream()
	return w == io.Writer(os.Stdout) || w == io.Writer(os.Stderr)
}

// firstConsole returns the first console core in order, or nil.
func firstConsole(cores []zapcore.Core) StreamCore {
	for _, c := range cores {
		if IsConsole(c) {
			return c.(StreamCore)
		}
	}
	return nil
}
