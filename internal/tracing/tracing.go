// Package tracing provides the conditional diagnostic-output hooks used
// throughout the crdt module (spec.md §2's "Debug / tracing hooks"
// component). It wraps github.com/rs/zerolog rather than hand-rolled
// formatted/colorized output: pretty-printing is explicitly out of scope
// per spec.md §1, but structured, leveled logging of the ambient stack
// is carried regardless (spec.md's Non-goals bind features, not
// ambient concerns).
package tracing

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the package-wide sink for tracing events. It defaults to a
// no-op logger so the core is silent by default. Code outside this module
// cannot import this internal package; it attaches a real sink by passing
// crdt.WithLogger to crdt.NewDocument.
var Logger = zerolog.Nop()

// SetOutput redirects all tracing output to w at the given level. Code
// inside this module that wants visibility into queue parks, hash
// failures, and digest rejections calls this before constructing a
// crdt.Document.
func SetOutput(w io.Writer, level zerolog.Level) {
	Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetLogger installs an already-configured zerolog.Logger verbatim, for
// embedders that want to share their own sink/field conventions.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
