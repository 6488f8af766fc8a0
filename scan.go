package photosort

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// walkEntry is one enumerated file: absolute path plus its path relative to
// the input root.
type walkEntry struct {
	abs string
	rel string
}

// Scan runs one sorting pass: enumerate files under the input root, score the
// supported ones, move each to the clean or sensitive folder (or record the
// decision in a dry run), and persist the report at the output root.
//
// Per-file failures never abort the run; they are recorded and counted. The
// returned error is non-nil only for configuration problems (wrapping
// ErrConfig), a report that cannot be persisted, or cancellation. In the last
// two cases the report built so far is returned alongside the error.
func (s *Sorter) Scan(ctx context.Context, req Request) (*Report, error) {
	s.defaults()
	if s.Scorer == nil {
		return nil, fmt.Errorf("%w: no scorer configured", ErrConfig)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	entries, err := enumerate(req.InputDir, req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("enumerate %q: %w", req.InputDir, err)
	}

	report := newReport(req)
	if name, ok := s.Scorer.(fmt.Stringer); ok {
		report.Scorer = name.String()
	}

	slog.Info("photosort: scan starting",
		"input", req.InputDir, "output", req.OutputDir, "threshold", req.Threshold,
		"dry_run", req.DryRun, "workers", s.Workers, "files", len(entries))

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}

	olog, err := openOpLog(filepath.Join(req.OutputDir, LogFileName))
	if err != nil {
		slog.Warn("photosort: cannot open operation log", "error", err.Error())
		olog = disabledOpLog()
	}
	defer olog.Close()

	recs := make([]Record, len(entries))
	for i, e := range entries {
		recs[i] = Record{Path: filepath.ToSlash(e.rel), Format: formatName(e.rel)}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	dedup := &dedupIndex{}

	// Cancellation is checked between files: once the context dies no new
	// file is started, and untouched entries keep their pending outcome.
	for i := range entries {
		if gctx.Err() != nil {
			break
		}
		e := entries[i]
		g.Go(func() error {
			s.processFile(gctx, req, e, &recs[i], dedup, olog)
			return nil
		})
	}
	_ = g.Wait() // workers record their own failures, never an error

	report.Records = recs
	report.LogFailures = olog.appendFailures()
	report.finish()

	slog.Info("photosort: scan complete",
		"total", report.Total, "clean", report.Clean, "sensitive", report.Sensitive,
		"errors", report.Errors, "skipped", report.Skipped, "dry_run", req.DryRun)

	if err := report.Save(req.OutputDir); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// processFile resolves one file end to end: eligibility, scoring, decision,
// relocation, annotations, log entry.
func (s *Sorter) processFile(ctx context.Context, req Request, e walkEntry, rec *Record, dedup *dedupIndex, olog *opLog) {
	if ctx.Err() != nil {
		return // cancelled before this file started
	}

	defer func() {
		if rec.Outcome == OutcomePending {
			return // never judged, so no log line and no callback
		}
		olog.record(*rec, req.DryRun)
		if s.OnFile != nil {
			s.OnFile(*rec)
		}
	}()

	if !SupportedFormat(e.abs) {
		rec.Outcome = OutcomeSkipped
		slog.Debug("photosort: unsupported format", "path", rec.Path)
		return
	}

	confidence, err := s.Scorer.Score(ctx, e.abs)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Cut off mid-flight by cancellation: the file was not judged.
			return
		}
		rec.Outcome = OutcomeError
		rec.Error = err.Error()
		slog.Warn("photosort: scoring failed", "path", rec.Path, "error", err.Error())
		return
	}
	rec.Confidence = &confidence

	subdir := CleanDirName
	rec.Outcome = OutcomeClean
	if confidence >= req.Threshold {
		subdir = SensitiveDirName
		rec.Outcome = OutcomeSensitive
	}
	dest := filepath.Join(req.OutputDir, subdir, e.rel)

	if s.DetectDuplicates || s.FlagLocation {
		s.annotate(rec, e.abs, dedup)
	}

	if req.DryRun {
		rec.Destination = relTo(req.OutputDir, resolveCollision(dest))
		slog.Info("photosort: dry-run decision",
			"path", rec.Path, "outcome", rec.Outcome.String(), "confidence", confidence)
		return
	}

	moved, err := moveFile(e.abs, dest)
	if err != nil {
		rec.Outcome = OutcomeError
		rec.Error = err.Error()
		slog.Warn("photosort: move failed", "path", rec.Path, "error", err.Error())
		return
	}
	rec.Destination = relTo(req.OutputDir, moved)

	if rec.Outcome == OutcomeSensitive {
		slog.Info("photosort: sensitive content moved",
			"path", rec.Path, "confidence", confidence, "destination", rec.Destination)
	} else {
		slog.Debug("photosort: clean",
			"path", rec.Path, "confidence", confidence, "destination", rec.Destination)
	}
}

// annotate enriches a classified record with duplicate and location findings.
// A file that cannot be re-read or decoded is simply left unannotated.
func (s *Sorter) annotate(rec *Record, abs string, dedup *dedupIndex) {
	data, img := readImageFile(abs)
	if s.FlagLocation && len(data) > 0 {
		rec.HasLocation = HasLocation(data)
	}
	if s.DetectDuplicates && img != nil {
		if prior := dedup.match(img, rec.Path); prior != "" {
			rec.DuplicateOf = prior
			slog.Debug("photosort: duplicate", "path", rec.Path, "of", prior)
		}
	}
}

// enumerate lists every regular file under inputDir in lexical order. The
// tool's own output folders and report artifacts are excluded so a rerun
// never rescans what it already sorted.
func enumerate(inputDir, outputDir string) ([]walkEntry, error) {
	cleanRoot := filepath.Join(outputDir, CleanDirName)
	sensitiveRoot := filepath.Join(outputDir, SensitiveDirName)

	var entries []walkEntry
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir {
				return err
			}
			slog.Warn("photosort: unreadable entry skipped", "path", path, "error", err.Error())
			return nil
		}
		if d.IsDir() {
			if path == cleanRoot || path == sensitiveRoot {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Dir(path) == outputDir {
			switch d.Name() {
			case LogFileName, ReportJSONName, ReportTextName:
				return nil
			}
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		entries = append(entries, walkEntry{abs: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// relTo rewrites target relative to base with forward slashes, for report
// readability. Falls back to the raw path when no relative form exists.
func relTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
