// Package logging builds the zerolog logger codex-notify writes to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Prefix tags every console line so hook output is recognizable in Codex logs
const Prefix = "[Codex Notify]"

// Options controls logger construction
type Options struct {
	// Debug lowers the level from warn to debug
	Debug bool

	// NoColor disables ANSI colors; forced when the writer is not a terminal
	NoColor bool
}

// New returns a console logger writing to w.
// The default level is warn: the hook stays silent unless something fails.
func New(w io.Writer, opts Options) zerolog.Logger {
	level := zerolog.WarnLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor || !isTerminal(w) || os.Getenv("NO_COLOR") != "",
		TimeFormat: time.TimeOnly,
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return Prefix
			}
			return fmt.Sprintf("%s %v", Prefix, i)
		},
	}

	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// isTerminal reports whether w is a file attached to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsTerminal reports whether stderr is attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
