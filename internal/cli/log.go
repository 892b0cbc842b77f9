// Package cli implements the jsontree command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Every
// command accepts --verbose (-v) for debug logging, which also registers
// log-backed observability hooks so parse, search, render and cache events
// show up on stderr.
//
// # Commands
//
//   - tree: print the node/edge JSON of a document
//   - search, suggest, resolve: query a document from the shell
//   - render: export PNG, SVG, DOT or JSON files
//   - view: explore a document in the terminal
//   - serve: run the HTTP API
//   - cache, config: manage the export cache and configuration
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when done is called.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built 13 nodes (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
