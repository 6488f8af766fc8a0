package photosort

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestReportTally(t *testing.T) {
	t.Parallel()

	score := 0.8
	r := &Report{
		Records: []Record{
			{Path: "a.jpg", Outcome: OutcomeClean},
			{Path: "b.jpg", Outcome: OutcomeClean, DuplicateOf: "a.jpg"},
			{Path: "c.jpg", Outcome: OutcomeSensitive, Confidence: &score, HasLocation: true},
			{Path: "d.txt", Outcome: OutcomeSkipped},
			{Path: "e.png", Outcome: OutcomeError, Error: "boom"},
			{Path: "f.png", Outcome: OutcomePending},
		},
	}
	r.tally()

	if r.Total != 6 {
		t.Errorf("Total = %d, want 6", r.Total)
	}
	if r.Clean != 2 || r.Sensitive != 1 || r.Errors != 1 || r.Skipped != 1 {
		t.Errorf("counts = clean %d sensitive %d errors %d skipped %d",
			r.Clean, r.Sensitive, r.Errors, r.Skipped)
	}
	if r.Unprocessed != 1 {
		t.Errorf("Unprocessed = %d, want 1", r.Unprocessed)
	}
	if !r.Incomplete {
		t.Error("Incomplete = false with a pending record")
	}
	if r.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", r.Duplicates)
	}
	if r.LocationTagged != 1 {
		t.Errorf("LocationTagged = %d, want 1", r.LocationTagged)
	}
}

func TestReportTallyComplete(t *testing.T) {
	t.Parallel()

	r := &Report{Records: []Record{{Path: "a.jpg", Outcome: OutcomeClean}}}
	r.tally()
	if r.Incomplete {
		t.Error("Incomplete = true with every record resolved")
	}
	if r.Unprocessed != 0 {
		t.Errorf("Unprocessed = %d, want 0", r.Unprocessed)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	score := 0.42
	orig := &Report{
		RunID:          "run-1",
		InputDir:       "/photos",
		OutputDir:      "/sorted",
		Threshold:      0.7,
		DryRun:         true,
		Scorer:         "heuristic",
		StartedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2025, 6, 1, 10, 0, 3, 0, time.UTC),
		ElapsedSeconds: 3,
		Records: []Record{
			{Path: "a.jpg", Format: "jpg", Outcome: OutcomeClean, Confidence: &score},
			{Path: "b.txt", Outcome: OutcomeSkipped},
		},
	}
	orig.tally()

	var buf bytes.Buffer
	if err := orig.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if diff := cmp.Diff(orig, &got); diff != "" {
		t.Errorf("report changed across encode/decode (-want +got):\n%s", diff)
	}
}

func TestReportWriteSummary(t *testing.T) {
	t.Parallel()

	r := &Report{
		RunID:      "run-7",
		InputDir:   "/photos",
		OutputDir:  "/sorted",
		Threshold:  0.7,
		DryRun:     true,
		Scorer:     "heuristic",
		FinishedAt: time.Date(2025, 6, 1, 10, 0, 3, 0, time.UTC),
		Records: []Record{
			{Path: "a.jpg", Outcome: OutcomeClean},
			{Path: "b.jpg", Outcome: OutcomeSensitive},
			{Path: "c.txt", Outcome: OutcomeSkipped},
			{Path: "d.png", Outcome: OutcomePending},
		},
	}
	r.tally()
	r.LogFailures = 2

	var buf bytes.Buffer
	if err := r.WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PHOTO SORT REPORT",
		"run:       run-7",
		"threshold: 0.70",
		"scorer:    heuristic",
		"DRY RUN (no files were moved)",
		"sensitive",
		"skipped-unsupported",
		"pending",
		"log append failures: 2",
		"interrupted: 1 files were not processed",
		"full results: scan_report.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestReportWriteSummaryRealRun(t *testing.T) {
	t.Parallel()

	r := &Report{Records: []Record{{Path: "a.jpg", Outcome: OutcomeClean}}}
	r.tally()

	var buf bytes.Buffer
	if err := r.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "DRY RUN") {
		t.Error("summary of a real run mentions DRY RUN")
	}
	if strings.Contains(out, "pending") {
		t.Error("summary of a complete run lists a pending row")
	}
	if strings.Contains(out, "interrupted") {
		t.Error("summary of a complete run mentions an interruption")
	}
}

func TestReportSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := newReport(Request{InputDir: "/photos", OutputDir: dir, Threshold: 0.7})
	r.Records = []Record{{Path: "a.jpg", Outcome: OutcomeClean}}
	r.finish()

	if err := r.Save(dir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportJSONName))
	if err != nil {
		t.Fatalf("reading %s: %v", ReportJSONName, err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("saved report is not JSON: %v", err)
	}
	if got.RunID != r.RunID {
		t.Errorf("saved run ID = %q, want %q", got.RunID, r.RunID)
	}
	if got.Total != 1 || got.Clean != 1 {
		t.Errorf("saved counts = total %d clean %d", got.Total, got.Clean)
	}

	text, err := os.ReadFile(filepath.Join(dir, ReportTextName))
	if err != nil {
		t.Fatalf("reading %s: %v", ReportTextName, err)
	}
	if !strings.Contains(string(text), "PHOTO SORT REPORT") {
		t.Error("text report missing header")
	}
}

func TestReportSaveFailure(t *testing.T) {
	t.Parallel()

	r := &Report{}
	r.tally()
	err := r.Save(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if err == nil {
		t.Fatal("Save() into a missing directory expected error, got nil")
	}
	if !strings.Contains(err.Error(), "persist report") {
		t.Errorf("Save() error = %v, want persist report wrap", err)
	}
}

func TestSharePct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		part, total int
		want        string
	}{
		{0, 0, "0.0%"},
		{1, 4, "25.0%"},
		{3, 3, "100.0%"},
		{1, 3, "33.3%"},
	}
	for _, tc := range tests {
		if got := sharePct(tc.part, tc.total); got != tc.want {
			t.Errorf("sharePct(%d, %d) = %q, want %q", tc.part, tc.total, got, tc.want)
		}
	}
}
