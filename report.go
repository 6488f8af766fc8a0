package photosort

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Record is the per-file entry of a scan report.
type Record struct {
	Path        string   `json:"path"`                  // relative to the input root
	Format      string   `json:"format,omitempty"`      // normalized extension
	Outcome     Outcome  `json:"outcome"`
	Confidence  *float64 `json:"confidence,omitempty"`  // set only after successful scoring
	Destination string   `json:"destination,omitempty"` // where the file went, or would go in a dry run
	DuplicateOf string   `json:"duplicate_of,omitempty"`
	HasLocation bool     `json:"has_location,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Report aggregates one scan run. Scan assembles it; afterwards it is
// read-only.
type Report struct {
	RunID          string    `json:"run_id"`
	InputDir       string    `json:"input_dir"`
	OutputDir      string    `json:"output_dir"`
	Threshold      float64   `json:"threshold"`
	DryRun         bool      `json:"dry_run"`
	Scorer         string    `json:"scorer,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`

	Total     int `json:"total"`
	Clean     int `json:"clean"`
	Sensitive int `json:"sensitive"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"`

	// Incomplete is set when the run was cancelled; Unprocessed counts the
	// enumerated files that were never reached.
	Incomplete  bool `json:"incomplete,omitempty"`
	Unprocessed int  `json:"unprocessed,omitempty"`

	Duplicates     int `json:"duplicates,omitempty"`
	LocationTagged int `json:"location_tagged,omitempty"`
	LogFailures    int `json:"log_failures,omitempty"`

	Records []Record `json:"records"`
}

func newReport(req Request) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		InputDir:  req.InputDir,
		OutputDir: req.OutputDir,
		Threshold: req.Threshold,
		DryRun:    req.DryRun,
		StartedAt: time.Now().UTC(),
	}
}

// finish stamps the end time and recomputes the aggregate counters.
func (r *Report) finish() {
	r.FinishedAt = time.Now().UTC()
	r.ElapsedSeconds = r.FinishedAt.Sub(r.StartedAt).Seconds()
	r.tally()
}

func (r *Report) tally() {
	r.Total = len(r.Records)
	r.Clean, r.Sensitive, r.Errors, r.Skipped, r.Unprocessed = 0, 0, 0, 0, 0
	r.Duplicates, r.LocationTagged = 0, 0
	for _, rec := range r.Records {
		switch rec.Outcome {
		case OutcomeClean:
			r.Clean++
		case OutcomeSensitive:
			r.Sensitive++
		case OutcomeError:
			r.Errors++
		case OutcomeSkipped:
			r.Skipped++
		default:
			r.Unprocessed++
		}
		if rec.DuplicateOf != "" {
			r.Duplicates++
		}
		if rec.HasLocation {
			r.LocationTagged++
		}
	}
	r.Incomplete = r.Unprocessed > 0
}

// WriteJSON writes the full report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteSummary writes the human-readable report: a configuration echo, the
// outcome counts as a table, and the run footnotes.
func (r *Report) WriteSummary(w io.Writer) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "PHOTO SORT REPORT\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&buf, "run:       %s\n", r.RunID)
	fmt.Fprintf(&buf, "date:      %s\n", r.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&buf, "input:     %s\n", r.InputDir)
	fmt.Fprintf(&buf, "output:    %s\n", r.OutputDir)
	fmt.Fprintf(&buf, "threshold: %.2f\n", r.Threshold)
	if r.Scorer != "" {
		fmt.Fprintf(&buf, "scorer:    %s\n", r.Scorer)
	}
	if r.DryRun {
		fmt.Fprintf(&buf, "mode:      DRY RUN (no files were moved)\n")
	}
	buf.WriteByte('\n')

	tw := table.NewWriter()
	tw.SetOutputMirror(&buf)
	tw.AppendHeader(table.Row{"Outcome", "Count", "Share"})
	tw.AppendRow(table.Row{"clean", r.Clean, sharePct(r.Clean, r.Total)})
	tw.AppendRow(table.Row{"sensitive", r.Sensitive, sharePct(r.Sensitive, r.Total)})
	tw.AppendRow(table.Row{"error", r.Errors, sharePct(r.Errors, r.Total)})
	tw.AppendRow(table.Row{"skipped-unsupported", r.Skipped, sharePct(r.Skipped, r.Total)})
	if r.Unprocessed > 0 {
		tw.AppendRow(table.Row{"pending", r.Unprocessed, sharePct(r.Unprocessed, r.Total)})
	}
	tw.AppendFooter(table.Row{"total", r.Total, ""})
	tw.SetStyle(table.StyleRounded)
	tw.Render()
	buf.WriteByte('\n')

	if r.Duplicates > 0 {
		fmt.Fprintf(&buf, "duplicates flagged:  %d\n", r.Duplicates)
	}
	if r.LocationTagged > 0 {
		fmt.Fprintf(&buf, "location metadata:   %d\n", r.LocationTagged)
	}
	if r.LogFailures > 0 {
		fmt.Fprintf(&buf, "log append failures: %d\n", r.LogFailures)
	}
	if r.Incomplete {
		fmt.Fprintf(&buf, "interrupted: %d files were not processed\n", r.Unprocessed)
	}
	fmt.Fprintf(&buf, "elapsed: %.2fs\n", r.ElapsedSeconds)
	fmt.Fprintf(&buf, "\nfull results: %s\n", ReportJSONName)

	_, err := w.Write(buf.Bytes())
	return err
}

// Save persists both report files at dir. A failure here is the one IO error
// a finished run cannot absorb.
func (r *Report) Save(dir string) error {
	if err := writeTo(filepath.Join(dir, ReportJSONName), r.WriteJSON); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	if err := writeTo(filepath.Join(dir, ReportTextName), r.WriteSummary); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	return nil
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sharePct(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
