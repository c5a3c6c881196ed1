// Package cli implements the pathlens command-line interface.
//
// This package provides commands for querying learning-path graphs, sharing
// views as URLs, managing saved views, exporting result subgraphs, and
// serving the HTTP API. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
//   - query: Filter, sort, and page through the concepts of a dataset
//   - focus: Isolate the neighborhood of one concept
//   - compare: Join several learning paths into one view
//   - url: Encode views as share URLs and decode them back
//   - views: Manage named saved views
//   - export: Render a view as DOT, SVG, PDF, or PNG
//   - serve: Run the HTTP API server
//   - explore: Browse a dataset interactively
//   - cache: Manage the local file cache
//
// # Usage
//
//	import "github.com/pathlens/pathlens/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger: timestamped as HH:MM:SS.ms, filtered
// at level, writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timed starts a stopwatch and returns a function that logs msg with the
// elapsed time appended, e.g. "Matched 42 concepts (1.234s)".
func timed(l *log.Logger) func(msg string) {
	start := time.Now()
	return func(msg string) {
		l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
	}
}

// loggerKey carries the logger through command contexts. A private struct
// type cannot collide with keys from other packages.
type loggerKey struct{}

// withLogger attaches l to ctx for loggerFromContext to find.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the attached logger, or log.Default() so
// commands always have a usable one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
