package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	ReportOff  = "off"
	ReportTXT  = "txt"
	ReportJSON = "json"
	ReportHTML = "html"
)

type reportItem struct {
	Sidecar    string `json:"sidecar"`
	Source     string `json:"source"`
	Output     string `json:"output,omitempty"`
	Status     string `json:"status"`
	Edited     bool   `json:"edited"`
	Attempts   int    `json:"attempts,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	OutputSize int64  `json:"output_size,omitempty"`
	Error      string `json:"error,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

type reportPayload struct {
	StartedAt string       `json:"started_at"`
	EndedAt   string       `json:"ended_at"`
	Duration  string       `json:"duration"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Edited    int          `json:"edited"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Items     []reportItem `json:"items"`
}

// NormalizeReportFormat rapor formatını normalize eder.
func NormalizeReportFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ReportOff:
		return ReportOff
	case ReportTXT:
		return ReportTXT
	case ReportJSON:
		return ReportJSON
	case ReportHTML:
		return ReportHTML
	default:
		return ""
	}
}

// RenderReport render sonucu için rapor metni üretir.
func RenderReport(format string, summary Summary, results []JobResult, startedAt, endedAt time.Time) (string, error) {
	switch NormalizeReportFormat(format) {
	case ReportOff:
		return "", nil
	case ReportTXT:
		return renderTXTReport(summary, results, startedAt, endedAt), nil
	case ReportJSON:
		return renderJSONReport(summary, results, startedAt, endedAt)
	case ReportHTML:
		return renderHTMLReport(summary, results, startedAt, endedAt)
	default:
		return "", fmt.Errorf("gecersiz report formati: %s", format)
	}
}

func statusOf(r JobResult) string {
	switch {
	case r.Success && r.Edited:
		return "edited"
	case r.Success:
		return "unchanged"
	case r.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

func renderTXTReport(summary Summary, results []JobResult, startedAt, endedAt time.Time) string {
	var b strings.Builder
	b.WriteString("Render Report\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Started:   %s\n", startedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Ended:     %s\n", endedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:  %s\n", summary.Duration)
	fmt.Fprintf(&b, "Total:     %d\n", summary.Total)
	fmt.Fprintf(&b, "Succeeded: %d (edited=%d)\n", summary.Succeeded, summary.Edited)
	fmt.Fprintf(&b, "Skipped:   %d\n", summary.Skipped)
	fmt.Fprintf(&b, "Failed:    %d\n", summary.Failed)
	b.WriteString("\nItems:\n")

	for _, r := range results {
		fmt.Fprintf(&b, "- [%s] %s", statusOf(r), r.Job.Source)
		if r.Output != "" {
			fmt.Fprintf(&b, " -> %s", r.Output)
		}
		if r.Attempts > 0 {
			fmt.Fprintf(&b, " (attempts=%d)", r.Attempts)
		}
		if r.OutputSize > 0 {
			fmt.Fprintf(&b, " (size=%d)", r.OutputSize)
		}
		if r.Skipped && r.SkipReason != "" {
			fmt.Fprintf(&b, " (reason=%s)", r.SkipReason)
		}
		if r.Error != nil {
			fmt.Fprintf(&b, " (error=%s)", r.Error.Error())
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderJSONReport(summary Summary, results []JobResult, startedAt, endedAt time.Time) (string, error) {
	items := make([]reportItem, 0, len(results))
	for _, r := range results {
		item := reportItem{
			Sidecar:    r.Job.SidecarPath,
			Source:     r.Job.Source,
			Output:     r.Output,
			Status:     statusOf(r),
			Edited:     r.Edited,
			Attempts:   r.Attempts,
			DurationMS: r.Duration.Milliseconds(),
			OutputSize: r.OutputSize,
		}
		if r.Skipped {
			item.SkipReason = r.SkipReason
		}
		if r.Error != nil {
			item.Error = r.Error.Error()
		}
		items = append(items, item)
	}

	payload := reportPayload{
		StartedAt: startedAt.Format(time.RFC3339),
		EndedAt:   endedAt.Format(time.RFC3339),
		Duration:  summary.Duration.String(),
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Edited:    summary.Edited,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		Items:     items,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// renderHTMLReport raporu önce markdown tablosu olarak yazar, sonra goldmark
// ile HTML'e çevirir.
func renderHTMLReport(summary Summary, results []JobResult, startedAt, endedAt time.Time) (string, error) {
	var md strings.Builder
	md.WriteString("# Render Report\n\n")
	fmt.Fprintf(&md, "- Started: %s\n", startedAt.Format(time.RFC3339))
	fmt.Fprintf(&md, "- Ended: %s\n", endedAt.Format(time.RFC3339))
	fmt.Fprintf(&md, "- Duration: %s\n", summary.Duration)
	fmt.Fprintf(&md, "- Total: %d, succeeded: %d, edited: %d, skipped: %d, failed: %d\n\n",
		summary.Total, summary.Succeeded, summary.Edited, summary.Skipped, summary.Failed)

	md.WriteString("| Status | Source | Output | Attempts | Note |\n")
	md.WriteString("|---|---|---|---|---|\n")
	for _, r := range results {
		note := ""
		switch {
		case r.Error != nil:
			note = r.Error.Error()
		case r.Skipped:
			note = r.SkipReason
		}
		fmt.Fprintf(&md, "| %s | %s | %s | %d | %s |\n",
			statusOf(r), cell(r.Job.Source), cell(r.Output), r.Attempts, cell(note))
	}

	conv := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	var body bytes.Buffer
	if err := conv.Convert([]byte(md.String()), &body); err != nil {
		return "", fmt.Errorf("html rapor uretilemedi: %w", err)
	}

	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Render Report</title></head><body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body></html>\n")
	return out.String(), nil
}

// cell tablo hücresini bozacak karakterleri kaçırır.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
