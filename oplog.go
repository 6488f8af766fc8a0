package photosort

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// opLog is the append-only decision log kept at the output root: one JSON
// line per processed file. Lines go through slog's JSON handler, which
// serializes writes so concurrent workers never interleave entries.
type opLog struct {
	file     *os.File
	logger   *slog.Logger
	failures atomic.Int64
}

// countingWriter counts failed appends. A bad append never aborts the scan;
// the count surfaces in the report.
type countingWriter struct {
	w        io.Writer
	failures *atomic.Int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if err != nil {
		cw.failures.Add(1)
	}
	return n, err
}

// openOpLog opens the log file in append mode, creating it if needed.
func openOpLog(path string) (*opLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l := &opLog{file: f}
	l.logger = slog.New(slog.NewJSONHandler(
		&countingWriter{w: f, failures: &l.failures}, nil))
	return l, nil
}

// disabledOpLog stands in when the log file cannot be opened. Every record
// attempt counts as a failed append.
func disabledOpLog() *opLog {
	return &opLog{}
}

// record appends one line for a resolved file.
func (l *opLog) record(rec Record, dryRun bool) {
	if l.logger == nil {
		l.failures.Add(1)
		return
	}

	attrs := []any{
		slog.String("path", rec.Path),
		slog.String("outcome", rec.Outcome.String()),
		slog.Bool("dry_run", dryRun),
	}
	if rec.Confidence != nil {
		attrs = append(attrs, slog.Float64("confidence", *rec.Confidence))
	}
	if rec.Destination != "" {
		attrs = append(attrs, slog.String("destination", rec.Destination))
	}
	if rec.Error != "" {
		attrs = append(attrs, slog.String("error", rec.Error))
	}

	if rec.Outcome == OutcomeError {
		l.logger.Error(opMessage(rec, dryRun), attrs...)
		return
	}
	l.logger.Info(opMessage(rec, dryRun), attrs...)
}

// opMessage names the event: moves and dry-run decisions are kept distinct so
// a log reader can tell a simulation from the real thing.
func opMessage(rec Record, dryRun bool) string {
	switch rec.Outcome {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "failed"
	default:
		if dryRun {
			return "decision"
		}
		return "moved"
	}
}

// appendFailures reports how many log lines could not be written.
func (l *opLog) appendFailures() int {
	return int(l.failures.Load())
}

func (l *opLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
