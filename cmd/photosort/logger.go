package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// consoleLogger routes records to stdout, except errors, which go to stderr.
// It prints plain lines rather than structured output: the message first,
// then any attributes as key=value pairs.
type consoleLogger struct {
	stdout     io.Writer
	stderr     io.Writer
	hasErrored bool
	level      slog.Leveler
}

func newConsoleLogger(stdout, stderr io.Writer) *consoleLogger {
	return &consoleLogger{
		stdout: stdout,
		stderr: stderr,
		level:  slog.LevelInfo,
	}
}

func (c *consoleLogger) SetLevel(level slog.Leveler) {
	c.level = level
}

func (c *consoleLogger) writer(level slog.Level) io.Writer {
	if level == slog.LevelError {
		return c.stderr
	}
	return c.stdout
}

func (c *consoleLogger) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelError {
		c.hasErrored = true
	}
	return level >= c.level.Level()
}

func (c *consoleLogger) Handle(_ context.Context, record slog.Record) error {
	if record.Level == slog.LevelError {
		c.hasErrored = true
	}

	var sb strings.Builder
	sb.WriteString(record.Message)
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	sb.WriteByte('\n')

	_, err := io.WriteString(c.writer(record.Level), sb.String())
	return err
}

// HasErrored reports whether any record at error level went through.
func (c *consoleLogger) HasErrored() bool {
	return c.hasErrored
}

func (c *consoleLogger) WithAttrs(_ []slog.Attr) slog.Handler {
	panic("not supported")
}

func (c *consoleLogger) WithGroup(_ string) slog.Handler {
	panic("not supported")
}

var _ slog.Handler = &consoleLogger{}
