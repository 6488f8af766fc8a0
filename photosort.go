package photosort

import (
	"context"
	"errors"
)

// DefaultThreshold is the confidence cutoff used when the caller does not set one.
const DefaultThreshold = 0.7

// Names of the artifacts a scan leaves at the output root.
const (
	CleanDirName     = "clean_photos"
	SensitiveDirName = "sensitive_photos"
	LogFileName      = "photosort.log"
	ReportJSONName   = "scan_report.json"
	ReportTextName   = "scan_report.txt"
)

// ErrConfig marks a configuration problem detected before any file is touched.
// Callers can test for it with errors.Is.
var ErrConfig = errors.New("invalid configuration")

// Scorer abstracts the NSFW classifier: image file in, confidence in [0, 1] out.
// Implementations must be safe for concurrent use when Sorter.Workers > 1.
type Scorer interface {
	Score(ctx context.Context, path string) (float64, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, path string) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, path string) (float64, error) {
	return f(ctx, path)
}

// Sorter holds all dependencies injected by the consumer.
type Sorter struct {
	Scorer  Scorer // required for Scan
	Workers int    // scoring concurrency (default: 1, sequential)

	// DetectDuplicates enables perceptual-hash comparison of classified images.
	// Later copies of an already-seen image are annotated in the report.
	DetectDuplicates bool

	// FlagLocation enables probing classified images for embedded GPS
	// coordinates. Matches are flagged in the report.
	FlagLocation bool

	// OnFile, if set, is called once per file after its outcome is resolved.
	// With Workers > 1 it may be called from multiple goroutines.
	OnFile func(Record)
}

// Request describes one scan: where to read, where to sort, and how strict to be.
type Request struct {
	InputDir  string  // root to scan (must exist)
	OutputDir string  // destination root (default: InputDir)
	Threshold float64 // sensitive iff confidence >= Threshold; must be in [0, 1]
	DryRun    bool    // compute and record decisions without moving anything
}

// defaults fills zero-value fields with sensible defaults.
func (s *Sorter) defaults() {
	if s.Workers <= 0 {
		s.Workers = 1
	}
}
