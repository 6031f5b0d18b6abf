// Package ui komut satırı çıktısı için ortak yazdırma yardımcılarıdır.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Out tüm yardımcıların yazdığı hedeftir; testlerde değiştirilir.
var Out io.Writer = os.Stdout

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boldStyle    = lipgloss.NewStyle().Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#06B6D4")).
			Padding(0, 3)
)

// Icons kullanıcı dostu ikonlar
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
	IconInfo    = "ℹ️ "
	IconTrim    = "✂️ "
	IconVideo   = "🎬"
	IconLoop    = "🔁"
	IconBatch   = "📦"
	IconDone    = "🎉"
	IconTime    = "⏱️ "
)

// PrintBanner uygulama başlığını yazdırır
func PrintBanner(version string) {
	text := fmt.Sprintf("ClipEditor CLI  %s\nKirp, dongu belirle, kaydet", version)
	fmt.Fprintln(Out, bannerStyle.Render(text))
}

// PrintSuccess başarılı mesaj
func PrintSuccess(msg string) {
	fmt.Fprintf(Out, "%s %s\n", IconSuccess, successStyle.Render(msg))
}

// PrintError hata mesajı
func PrintError(msg string) {
	fmt.Fprintf(Out, "%s %s\n", IconError, errorStyle.Render(msg))
}

// PrintWarning uyarı mesajı
func PrintWarning(msg string) {
	fmt.Fprintf(Out, "%s %s\n", IconWarning, warningStyle.Render(msg))
}

// PrintInfo bilgi mesajı
func PrintInfo(msg string) {
	fmt.Fprintf(Out, "%s %s\n", IconInfo, infoStyle.Render(msg))
}

// PrintTrim kırpma işlemi mesajı
func PrintTrim(input, output string) {
	fmt.Fprintf(Out, "%s %s → %s\n", IconTrim, dimStyle.Render(input), successStyle.Render(output))
}

// PrintDuration süre bilgisi
func PrintDuration(d time.Duration) {
	fmt.Fprintf(Out, "%s Süre: %s\n", IconTime, accentStyle.Render(FormatDuration(d)))
}

// ProgressBar ilerleme çubuğu gösterir
type ProgressBar struct {
	Total   int
	Current int
	Width   int
	Label   string
}

// NewProgressBar yeni bir progress bar oluşturur
func NewProgressBar(total int, label string) *ProgressBar {
	return &ProgressBar{
		Total: total,
		Width: 40,
		Label: label,
	}
}

// Update ilerlemeyi günceller
func (pb *ProgressBar) Update(current int) {
	pb.Current = current
	fmt.Fprintf(Out, "\r  %s", pb.String())
	if current >= pb.Total {
		fmt.Fprintln(Out)
	}
}

// String çubuğun mevcut halini döner.
func (pb *ProgressBar) String() string {
	total := pb.Total
	if total <= 0 {
		total = 1
	}
	current := min(max(pb.Current, 0), total)
	filled := pb.Width * current / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.Width-filled)
	percentage := float64(current) / float64(total) * 100
	return fmt.Sprintf("%s [%s] %s (%d/%d)",
		boldStyle.Render(pb.Label),
		successStyle.Render(bar),
		accentStyle.Render(fmt.Sprintf("%.0f%%", percentage)),
		current, pb.Total)
}

// PrintTable basit bir kutu tablo yazdırır
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && lipgloss.Width(cell) > colWidths[i] {
				colWidths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(left, mid, right string) string {
		parts := make([]string, len(colWidths))
		for i, w := range colWidths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return "  " + left + strings.Join(parts, mid) + right
	}
	row := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		b.WriteString("  │")
		for i, w := range colWidths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", w-lipgloss.Width(cell))
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(" " + cell + pad + " │")
		}
		return b.String()
	}

	fmt.Fprintln(Out, line("┌", "┬", "┐"))
	fmt.Fprintln(Out, row(headers, &boldStyle))
	fmt.Fprintln(Out, line("├", "┼", "┤"))
	for _, r := range rows {
		fmt.Fprintln(Out, row(r, nil))
	}
	fmt.Fprintln(Out, line("└", "┴", "┘"))
}

// PrintRenderSummary toplu render özetini yazdırır
func PrintRenderSummary(total, succeeded, edited, skipped, failed int, duration time.Duration) {
	fmt.Fprintln(Out)
	fmt.Fprintf(Out, "  %s %s\n", IconDone, boldStyle.Render("Toplu Render Tamamlandı"))
	fmt.Fprintln(Out, "  "+strings.Repeat("─", 40))
	fmt.Fprintf(Out, "  Toplam:     %s dosya\n", accentStyle.Render(fmt.Sprint(total)))
	fmt.Fprintf(Out, "  Başarılı:   %s dosya (kırpılan %d)\n", successStyle.Render(fmt.Sprint(succeeded)), edited)
	if skipped > 0 {
		fmt.Fprintf(Out, "  Atlanan:    %s dosya\n", warningStyle.Render(fmt.Sprint(skipped)))
	}
	if failed > 0 {
		fmt.Fprintf(Out, "  Başarısız:  %s dosya\n", errorStyle.Render(fmt.Sprint(failed)))
	}
	fmt.Fprintf(Out, "  Süre:       %s\n", warningStyle.Render(FormatDuration(duration)))
	fmt.Fprintln(Out)
}

// FormatDuration süreyi okunabilir formata çevirir
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
