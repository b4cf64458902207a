// Package klog provides the analyzer's structured logging, used only for
// builder-time diagnostics (model loading progress, arch-dispatch
// selection) — the hot analyze path never logs.
//
// Grounded on github.com/rs/zerolog, the logger used by several NLP and
// metrics pipelines: a zero-allocation, leveled, structured logger
// rather than a bare log.Printf.
package klog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Default is the package-level logger, writing human-readable console
// output to stderr. Callers that embed the analyzer in a service should
// replace it with Set to route through their own sink.
var Default = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger()

// Set replaces Default, writing JSON lines to w at the given level.
func Set(w io.Writer, level zerolog.Level) {
	Default = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given component name,
// e.g. klog.Component("trie") for internal/trie's build-time logging.
func Component(name string) zerolog.Logger {
	return Default.With().Str("component", name).Logger()
}
