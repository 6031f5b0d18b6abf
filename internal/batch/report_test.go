package batch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeReportFormat(t *testing.T) {
	if got := NormalizeReportFormat(""); got != ReportOff {
		t.Fatalf("expected off, got %s", got)
	}
	if got := NormalizeReportFormat("JSON"); got != ReportJSON {
		t.Fatalf("expected json, got %s", got)
	}
	if got := NormalizeReportFormat("Html"); got != ReportHTML {
		t.Fatalf("expected html, got %s", got)
	}
	if got := NormalizeReportFormat("bad"); got != "" {
		t.Fatalf("expected empty for invalid report format, got %s", got)
	}
}

func sampleResults() (Summary, []JobResult) {
	results := []JobResult{
		{Job: Job{Source: "a.mp4"}, Success: true, Edited: true, Output: "a_edited.mp4", Attempts: 1, Duration: time.Second},
		{Job: Job{Source: "b.mp4"}, Skipped: true, SkipReason: "source_missing"},
		{Job: Job{Source: "c|d.mp4"}, Attempts: 3, Error: errStub("boom")},
	}
	return GetSummary(results, 2*time.Second), results
}

func TestRenderReportTXT(t *testing.T) {
	summary, results := sampleResults()
	out, err := RenderReport(ReportTXT, summary, results, time.Unix(0, 0), time.Unix(2, 0))
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	if !strings.Contains(out, "Render Report") {
		t.Fatalf("missing report header")
	}
	if !strings.Contains(out, "[edited] a.mp4 -> a_edited.mp4") {
		t.Fatalf("missing edited item:\n%s", out)
	}
	if !strings.Contains(out, "[skipped] b.mp4 (reason=source_missing)") {
		t.Fatalf("missing skipped item:\n%s", out)
	}
}

func TestRenderReportJSON(t *testing.T) {
	summary, results := sampleResults()
	out, err := RenderReport(ReportJSON, summary, results, time.Unix(0, 0), time.Unix(1, 0))
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if payload["total"] != float64(3) || payload["edited"] != float64(1) {
		t.Fatalf("unexpected totals: %v", payload)
	}

	items, ok := payload["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("unexpected items: %v", payload["items"])
	}
	last, _ := items[2].(map[string]any)
	if last["status"] != "failed" || last["error"] != "boom" {
		t.Fatalf("unexpected failed item: %v", last)
	}
}

func TestRenderReportHTML(t *testing.T) {
	summary, results := sampleResults()
	out, err := RenderReport(ReportHTML, summary, results, time.Unix(0, 0), time.Unix(1, 0))
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h1>Render Report</h1>") {
		t.Fatalf("expected html table output:\n%s", out)
	}
	if !strings.Contains(out, "c|d.mp4") {
		t.Fatalf("escaped pipe must render as text:\n%s", out)
	}
}

func TestRenderReportOff(t *testing.T) {
	out, err := RenderReport("off", Summary{}, nil, time.Now(), time.Now())
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q (%v)", out, err)
	}
	if _, err := RenderReport("xml", Summary{}, nil, time.Now(), time.Now()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
