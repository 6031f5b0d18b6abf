package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/media"
	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	editTrim        trimFlags
	editSaveSidecar bool
	editThumbs      int
	editNoWatch     bool
)

var editCmd = &cobra.Command{
	Use:   "edit <video>",
	Short: "Videoyu interaktif zaman çizelgesinde düzenle",
	Long: `Videoyu terminal içinde bir zaman çizelgesi üzerinde açar. Kırpma
tutamaçlarını ve döngü bölgesini fare veya klavye ile ayarlayıp Enter ile
kaydedebilirsiniz. Aynı video için önceki düzenleme varsa geri yüklenir.

Kısayollar:
  space          oynat / duraklat
  ← / →          bir kare geri / ileri
  [ / ]          kırpma başlangıcı / bitişi oynatma konumuna
  home / end     kırpma başlangıcına / bitişine git
  l / x          döngü oluştur / döngüyü kaldır
  ctrl+z/ctrl+y  geri al / yinele
  enter          düzenlemeyi uygula
  q              çık

Örnekler:
  clipeditor-cli edit klip.mp4
  clipeditor-cli edit klip.mp4 --codec reencode --quality 80
  clipeditor-cli edit klip.mp4 --save-sidecar`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	editTrim.applyDefaults(cmd)

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dosya bulunamadı: %s", args[0])
	}
	if !media.IsFFmpegAvailable() {
		return fmt.Errorf("ffmpeg bulunamadı; 'clipeditor-cli doctor --install' ile kurabilirsiniz")
	}

	tr, _, err := editTrim.trimmer(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(tr, true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := activeProjectConfig.ThumbnailOptions()
	if flagChanged(cmd, "thumbs") && editThumbs > 0 {
		opts.Count = editThumbs
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := newEditModel(ctx, a, path, editModelOptions{
		Sampler:     thumbnail.New(media.FrameGrabber{Path: path}, opts),
		SaveSidecar: editSaveSidecar,
		Watch:       !editNoWatch,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editör başlatılamadı: %w", err)
	}

	if fm, ok := final.(editModel); ok {
		fm.close()
		fm.printOutcome()
	}
	return nil
}

// printOutcome TUI kapandıktan sonra sonucu terminale yazar.
func (m editModel) printOutcome() {
	switch {
	case m.submitErr != nil:
		ui.PrintError(m.submitErr.Error())
	case m.result == nil:
		ui.PrintInfo("Düzenleme uygulanmadı.")
	case !m.result.Edited:
		ui.PrintInfo("Kırpma tüm videoyu kapsıyor; dosya değiştirilmedi.")
	default:
		ui.PrintTrim(m.path, m.result.Asset.URL)
		ui.PrintDuration(seconds(m.result.Asset.Duration))
	}
	if m.sidecarPath != "" {
		ui.PrintInfo(fmt.Sprintf("Düzenleme dosyası: %s", m.sidecarPath))
	}
}

// seconds saniye cinsinden süreyi time.Duration'a çevirir.
func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func init() {
	editTrim.register(editCmd, false)
	editCmd.Flags().BoolVar(&editSaveSidecar, "save-sidecar", false, "Düzenlemeyi <video>.edit.json olarak da kaydet")
	editCmd.Flags().IntVar(&editThumbs, "thumbs", 0, "Önizleme kare sayısı")
	editCmd.Flags().BoolVar(&editNoWatch, "no-watch", false, "Dosya değişikliklerini izleme")
	rootCmd.AddCommand(editCmd)
}
