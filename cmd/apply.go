package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/edit"
	"github.com/mlihgenel/clipeditor-cli/internal/editor"
	"github.com/mlihgenel/clipeditor-cli/internal/timecode"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	applyTrim      trimFlags
	applyStart     string
	applyEnd       string
	applyLoopStart string
	applyLoopEnd   string
	applyClearLoop bool
	applyDryRun    bool
	applySidecar   bool
	applyJSON      bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <video>",
	Short: "Kırpma ve döngüyü etkileşimsiz uygula",
	Long: `Kırpma aralığını ve isteğe bağlı döngü bölgesini komut satırından verip
düzenlemeyi uygular. Değerler interaktif editördeki kurallarla
sıkıştırılır; örneğin çok kısa bir kırpma en küçük aralığa genişletilir.

Zaman formatları: saniye (12.5), MM:SS(.ms) veya HH:MM:SS(.ms).

Örnekler:
  clipeditor-cli apply klip.mp4 --start 2 --end 8
  clipeditor-cli apply klip.mp4 --start 00:02 --end 00:08 --loop-start 3 --loop-end 5
  clipeditor-cli apply klip.mp4 --clear-loop --dry-run
  clipeditor-cli apply klip.mp4 --start 1 --save-sidecar --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	applyTrim.applyDefaults(cmd)

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dosya bulunamadı: %s", args[0])
	}
	if applyClearLoop && (applyLoopStart != "" || applyLoopEnd != "") {
		return fmt.Errorf("--clear-loop ile --loop-start/--loop-end birlikte kullanılamaz")
	}
	if (applyLoopStart == "") != (applyLoopEnd == "") {
		return fmt.Errorf("--loop-start ve --loop-end birlikte verilmeli")
	}

	tr, prof, err := applyTrim.trimmer(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(tr, true)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	duration, err := a.prober.Duration(ctx, path)
	if err != nil {
		return fmt.Errorf("medya süresi okunamadı: %w", err)
	}

	var initial *edit.Payload
	if a.store != nil {
		if initial, err = a.store.InitialEdit(ctx, path); err != nil {
			a.logger.Warn("kayitli duzenleme okunamadi", "path", path, "error", err)
			initial = nil
		}
	}

	ed := editor.New(nil, a.limits)
	ed.SetSource(path)
	if err := ed.Load(duration, initial); err != nil {
		return err
	}
	if err := applyEdits(ed); err != nil {
		return err
	}
	payload := ed.Payload()

	if prof != nil && verbose {
		ui.PrintInfo(fmt.Sprintf("Profil: %s (%s)", prof.Name, prof.Description))
	}

	if applyDryRun {
		// Dry-run'da düzenleme dosyası render için girdi olarak yazılır.
		if err := writeApplySidecar(path, payload, true); err != nil {
			return err
		}
		return printPlan(path, duration, payload)
	}

	req, err := ed.Request()
	if err != nil {
		return err
	}
	res, err := a.service.Submit(ctx, req)
	if err != nil {
		return err
	}
	if err := writeApplySidecar(path, payload, !applyJSON); err != nil {
		return err
	}
	return printApplyResult(path, res)
}

// writeApplySidecar --save-sidecar verildiyse düzenleme dosyasını yazar.
func writeApplySidecar(path string, payload edit.Payload, announce bool) error {
	if !applySidecar {
		return nil
	}
	p, err := batch.SaveSidecar(path, payload)
	if err != nil {
		return fmt.Errorf("düzenleme dosyası yazılamadı: %w", err)
	}
	if announce {
		ui.PrintInfo(fmt.Sprintf("Düzenleme dosyası: %s", p))
	}
	return nil
}

// applyEdits flag'lerdeki değişiklikleri editöre sırayla uygular.
func applyEdits(ed *editor.Editor) error {
	s := ed.State()
	start, end := s.TrimStart, s.TrimEnd
	var err error
	if strings.TrimSpace(applyStart) != "" {
		if start, err = timecode.Parse(applyStart); err != nil {
			return fmt.Errorf("gecersiz --start: %w", err)
		}
	}
	if strings.TrimSpace(applyEnd) != "" {
		if end, err = timecode.Parse(applyEnd); err != nil {
			return fmt.Errorf("gecersiz --end: %w", err)
		}
	}
	if start != s.TrimStart || end != s.TrimEnd {
		if err := ed.ApplyTrim(start, end); err != nil {
			return err
		}
	}

	switch {
	case applyClearLoop:
		return ed.ClearLoop()
	case applyLoopStart != "":
		ls, err := timecode.Parse(applyLoopStart)
		if err != nil {
			return fmt.Errorf("gecersiz --loop-start: %w", err)
		}
		le, err := timecode.Parse(applyLoopEnd)
		if err != nil {
			return fmt.Errorf("gecersiz --loop-end: %w", err)
		}
		return ed.SetLoop(ls, le)
	}
	return nil
}

func printPlan(path string, duration float64, p edit.Payload) error {
	if applyJSON {
		return writeJSON(p)
	}
	rows := [][]string{
		{"Kaynak", path},
		{"Süre", timecode.Human(duration)},
		{"Kırpma", fmt.Sprintf("%s → %s", timecode.Human(p.TrimStart), timecode.Human(p.TrimEnd))},
		{"Döngü", loopText(p)},
	}
	ui.PrintTable([]string{"Alan", "Değer"}, rows)
	ui.PrintInfo("Dry-run: kırpma yapılmadı.")
	return nil
}

func printApplyResult(path string, res edit.Result) error {
	if applyJSON {
		return writeJSON(res.Payload)
	}
	if !res.Edited {
		ui.PrintInfo("Kırpma tüm videoyu kapsıyor; dosya değiştirilmedi.")
		return nil
	}
	ui.PrintTrim(path, res.Asset.URL)
	ui.PrintDuration(seconds(res.Asset.Duration))
	if z := res.Payload.Loop(); z != nil {
		ui.PrintInfo(fmt.Sprintf("Döngü (yeni videoda): %s → %s", timecode.Human(z.Start), timecode.Human(z.End)))
	} else if res.Remap.Status == edit.RemapDiscarded {
		ui.PrintWarning("Döngü kırpılan aralığın dışında kaldığı için kaldırıldı.")
	}
	return nil
}

func loopText(p edit.Payload) string {
	z := p.Loop()
	if z == nil {
		return "-"
	}
	return fmt.Sprintf("%s → %s", timecode.Human(z.Start), timecode.Human(z.End))
}

func writeJSON(v any) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	applyTrim.register(applyCmd, false)
	applyCmd.Flags().StringVar(&applyStart, "start", "", "Kırpma başlangıcı")
	applyCmd.Flags().StringVar(&applyEnd, "end", "", "Kırpma bitişi")
	applyCmd.Flags().StringVar(&applyLoopStart, "loop-start", "", "Döngü başlangıcı")
	applyCmd.Flags().StringVar(&applyLoopEnd, "loop-end", "", "Döngü bitişi")
	applyCmd.Flags().BoolVar(&applyClearLoop, "clear-loop", false, "Kayıtlı döngüyü kaldır")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Kırpmadan sadece planı göster")
	applyCmd.Flags().BoolVar(&applySidecar, "save-sidecar", false, "Düzenlemeyi <video>.edit.json olarak kaydet")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Sonucu JSON olarak yaz")
	rootCmd.AddCommand(applyCmd)
}
