// Package cli implements the voxelgraph command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Every
// command goes through pkg/pipeline, so the graph cache and metrics hooks
// behave the same everywhere.
//
// # Commands
//
// The main commands are:
//   - build: Read a voxel array, build its adjacency graph, export it
//   - adjacency: Print the adjacency list to stdout
//   - render: Draw a small grid graph as SVG or PNG
//   - inspect: Browse the layers of a voxel array interactively
//   - convert: Re-encode a voxel array (text, binary, compressed)
//   - cache: Manage the graph cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-file to additionally write logs to a size-rotated file. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/lumberjack"
)

const (
	logFileMaxSize = 10 // megabytes
	logFileMaxAge  = 28 // days
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// attachLogFile tees the CLI logger into a rotating file at path.
func (c *CLI) attachLogFile(path string) {
	if c.logFile != nil {
		c.logFile.Close()
	}
	lf := &lumberjack.Logger{
		Filename: path,
		MaxSize:  logFileMaxSize,
		MaxAge:   logFileMaxAge,
	}
	c.logFile = lf
	c.Logger.SetOutput(io.MultiWriter(c.out, lf))
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Built 27 nodes (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
