package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
	"github.com/mlihgenel/clipeditor-cli/internal/watch"
)

var (
	renderTrim       trimFlags
	renderWorkers    int
	renderRecursive  bool
	renderDryRun     bool
	renderReport     string
	renderReportFile string
	renderWatch      bool
	renderInterval   time.Duration
	renderSettle     time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render <dizin|glob>",
	Short: "Düzenleme dosyalarını toplu olarak uygula",
	Long: `Videoların yanındaki <video>.edit.json düzenleme dosyalarını bulur ve
her birini paralel olarak uygular. Düzenleme dosyaları 'edit --save-sidecar'
veya 'apply --save-sidecar' ile üretilir.

--watch ile dizin izlenir; yeni veya değişen düzenleme dosyaları otomatik
uygulanır.

Örnekler:
  clipeditor-cli render ./klipler
  clipeditor-cli render "./klipler/*.edit.json" --workers 4
  clipeditor-cli render ./klipler --recursive --report html --report-file rapor.html
  clipeditor-cli render ./klipler --watch --interval 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	renderTrim.applyDefaults(cmd)
	applyWorkersDefault(cmd, "workers", &renderWorkers)
	applyReportDefault(cmd, "report", &renderReport)

	if renderWatch && strings.ContainsAny(args[0], "*?[") {
		return fmt.Errorf("--watch yalnızca dizin ile kullanılabilir")
	}

	pool := batch.NewPool(renderWorkers, nil)
	tr, prof, err := renderTrim.trimmer(cmd, pool)
	if err != nil {
		return err
	}
	if prof != nil && prof.Report != "" && !flagChanged(cmd, "report") {
		renderReport = prof.Report
	}
	reportFormat := batch.NormalizeReportFormat(renderReport)
	if reportFormat == "" {
		return fmt.Errorf("gecersiz rapor formati: %s (off|txt|json|html)", renderReport)
	}
	a, err := newApp(tr, true)
	if err != nil {
		return err
	}
	defer a.Close()

	pool.Renderer = batch.ServiceRenderer{Service: a.service, Probe: a.prober}
	pool.Logger = a.logger
	if prof != nil {
		ui.PrintInfo(fmt.Sprintf("Profil: %s", prof.Name))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if renderWatch {
		return watchRender(ctx, pool, args[0], reportFormat)
	}

	jobs, err := collectRenderJobs(args[0])
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		ui.PrintWarning("Düzenleme dosyası bulunamadı.")
		return nil
	}
	if renderDryRun {
		printRenderPlan(jobs)
		return nil
	}
	return runRenderJobs(ctx, pool, jobs, reportFormat)
}

func collectRenderJobs(target string) ([]batch.Job, error) {
	if strings.ContainsAny(target, "*?[") {
		pattern, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		return batch.CollectJobsFromGlob(pattern)
	}
	dir, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dizin bulunamadı: %s", target)
	}
	if !info.IsDir() {
		if batch.IsSidecar(dir) {
			return []batch.Job{batch.LoadSidecar(dir)}, nil
		}
		return nil, fmt.Errorf("dizin veya .edit.json dosyası bekleniyordu: %s", target)
	}
	return batch.CollectJobs(dir, renderRecursive)
}

func printRenderPlan(jobs []batch.Job) {
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		status := "uygulanacak"
		switch {
		case j.LoadErr != nil:
			status = "hatalı: " + j.LoadErr.Error()
		case j.SkipReason != "":
			status = "atlanacak: " + j.SkipReason
		}
		rows = append(rows, []string{
			filepath.Base(j.Source),
			fmt.Sprintf("%.3f → %.3f", j.Payload.TrimStart, j.Payload.TrimEnd),
			loopText(j.Payload),
			status,
		})
	}
	ui.PrintTable([]string{"Video", "Kırpma", "Döngü", "Durum"}, rows)
	ui.PrintInfo(fmt.Sprintf("Dry-run: %d iş planlandı, kırpma yapılmadı.", len(jobs)))
}

func runRenderJobs(ctx context.Context, pool *batch.Pool, jobs []batch.Job, reportFormat string) error {
	bar := ui.NewProgressBar(len(jobs), "Render")
	pool.OnProgress = func(completed, total int) {
		bar.Update(completed)
		fmt.Fprint(ui.Out, "\r"+bar.String())
	}

	startedAt := time.Now()
	results := pool.Execute(ctx, jobs)
	endedAt := time.Now()
	fmt.Fprintln(ui.Out)

	summary := batch.GetSummary(results, endedAt.Sub(startedAt))
	ui.PrintRenderSummary(summary.Total, summary.Succeeded, summary.Edited, summary.Skipped, summary.Failed, summary.Duration)
	if len(summary.Errors) > 0 {
		ui.PrintError("Başarısız işler:")
		for _, e := range summary.Errors {
			fmt.Fprintf(ui.Out, "  %s %s: %s (deneme: %d)\n", ui.IconError, e.InputFile, e.Error, e.Attempts)
		}
		fmt.Fprintln(ui.Out)
	}

	if err := emitReport(reportFormat, summary, results, startedAt, endedAt); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d iş başarısız oldu", summary.Failed)
	}
	return nil
}

func emitReport(format string, summary batch.Summary, results []batch.JobResult, startedAt, endedAt time.Time) error {
	text, err := batch.RenderReport(format, summary, results, startedAt, endedAt)
	if err != nil {
		return fmt.Errorf("rapor üretilemedi: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if strings.TrimSpace(renderReportFile) == "" {
		fmt.Fprintln(ui.Out, text)
		return nil
	}
	if err := writeReport(renderReportFile, text); err != nil {
		return fmt.Errorf("rapor yazılamadı: %w", err)
	}
	ui.PrintInfo(fmt.Sprintf("Rapor yazıldı: %s", renderReportFile))
	return nil
}

func writeReport(path, text string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// watchRender dizini izler ve hazır olan düzenleme dosyalarını uygular.
// Mevcut dosyalar başlangıçta işlenmiş sayılır.
func watchRender(ctx context.Context, pool *batch.Pool, target, reportFormat string) error {
	dir, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	w := watch.NewAdaptiveWatcher(dir, watch.SuffixFilter(batch.SidecarSuffix), renderRecursive, renderSettle)
	if err := w.Bootstrap(); err != nil {
		return err
	}
	defer w.Close()

	ui.PrintInfo(fmt.Sprintf("İzleme başladı: %s (%s)", dir, w.Mode()))
	ui.PrintInfo("Durdurmak için Ctrl+C kullanın.")

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	poll := func() {
		files, err := w.Poll(time.Now())
		if err != nil {
			ui.PrintError(fmt.Sprintf("İzleme hatası: %s", err.Error()))
			return
		}
		if len(files) == 0 {
			return
		}
		jobs := make([]batch.Job, 0, len(files))
		for _, f := range files {
			jobs = append(jobs, batch.LoadSidecar(f))
		}
		if renderDryRun {
			printRenderPlan(jobs)
			return
		}
		if err := runRenderJobs(ctx, pool, jobs, reportFormat); err != nil {
			ui.PrintError(err.Error())
		}
	}

	for {
		select {
		case <-ticker.C:
			poll()
		case <-w.Events():
			poll()
		case <-ctx.Done():
			ui.PrintInfo("İzleme durduruldu.")
			return nil
		}
	}
}

func init() {
	renderTrim.register(renderCmd, true)
	renderCmd.Flags().IntVarP(&renderWorkers, "workers", "w", 0, "Paralel worker sayısı (varsayılan: CPU sayısı)")
	renderCmd.Flags().BoolVarP(&renderRecursive, "recursive", "r", false, "Alt dizinleri de tara")
	renderCmd.Flags().BoolVar(&renderDryRun, "dry-run", false, "Kırpmadan sadece planı göster")
	renderCmd.Flags().StringVar(&renderReport, "report", batch.ReportOff, "Rapor formatı: off, txt, json, html")
	renderCmd.Flags().StringVar(&renderReportFile, "report-file", "", "Raporu belirtilen dosyaya yaz")
	renderCmd.Flags().BoolVar(&renderWatch, "watch", false, "Dizini izle ve yeni düzenlemeleri uygula")
	renderCmd.Flags().DurationVar(&renderInterval, "interval", 2*time.Second, "İzleme tarama aralığı")
	renderCmd.Flags().DurationVar(&renderSettle, "settle", 1500*time.Millisecond, "Dosyanın stabil sayılması için bekleme süresi")
	rootCmd.AddCommand(renderCmd)
}
