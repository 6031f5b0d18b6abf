package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/media"
	"github.com/mlihgenel/clipeditor-cli/internal/thumbnail"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	thumbsCount  int
	thumbsWidth  int
	thumbsHeight int
	thumbsOut    string
	thumbsFormat string
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <video>",
	Short: "Zaman çizelgesi önizleme karelerini çıkar",
	Long: `Videonun süresine eşit aralıklarla yayılmış önizleme karelerini JPEG,
PNG veya WebP olarak yazar. Editördeki şerit aynı kareleri kullanır.

Örnekler:
  clipeditor-cli thumbs klip.mp4
  clipeditor-cli thumbs klip.mp4 --count 10 --width 320 --height 180 --out ./kareler
  clipeditor-cli thumbs klip.mp4 --format webp`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbs,
}

func runThumbs(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dosya bulunamadı: %s", args[0])
	}
	if !media.IsFFmpegAvailable() {
		return media.ErrFFmpegMissing
	}
	format := thumbnail.NormalizeFormat(thumbsFormat)
	if format == "" {
		return fmt.Errorf("gecersiz kare formati: %s (jpg|png|webp)", thumbsFormat)
	}

	opts := activeProjectConfig.ThumbnailOptions()
	if flagChanged(cmd, "count") {
		opts.Count = thumbsCount
	}
	if flagChanged(cmd, "width") {
		opts.Width = thumbsWidth
	}
	if flagChanged(cmd, "height") {
		opts.Height = thumbsHeight
	}

	dir := thumbsOut
	if dir == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dir = filepath.Join(resolveOutputDir(path), base+"_thumbs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
	}

	ctx := cmd.Context()
	duration, err := media.Prober{}.Duration(ctx, path)
	if err != nil {
		return fmt.Errorf("medya süresi okunamadı: %w", err)
	}

	sampler := thumbnail.New(media.FrameGrabber{Path: path}, opts)
	opts = sampler.Options()
	bar := ui.NewProgressBar(opts.Count, "Kareler")

	written := 0
	for th, err := range sampler.Frames(ctx, duration) {
		if err != nil {
			fmt.Fprintln(ui.Out)
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("thumb_%03d.%s", th.Index+1, format))
		if err := writeThumbnail(name, th, format); err != nil {
			fmt.Fprintln(ui.Out)
			return err
		}
		written++
		bar.Update(written)
		fmt.Fprint(ui.Out, "\r"+bar.String())
	}
	fmt.Fprintln(ui.Out)
	ui.PrintSuccess(fmt.Sprintf("%d kare yazıldı: %s", written, dir))
	return nil
}

func writeThumbnail(name string, th thumbnail.Thumbnail, format string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := thumbnail.Encode(f, th.Image, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// resolveOutputDir --output verilmişse onu, yoksa kaynağın dizinini döner.
func resolveOutputDir(source string) string {
	if strings.TrimSpace(outputDir) != "" {
		return outputDir
	}
	return filepath.Dir(source)
}

func init() {
	thumbsCmd.Flags().IntVar(&thumbsCount, "count", 20, "Kare sayısı")
	thumbsCmd.Flags().IntVar(&thumbsWidth, "width", 160, "Kare genişliği")
	thumbsCmd.Flags().IntVar(&thumbsHeight, "height", 90, "Kare yüksekliği")
	thumbsCmd.Flags().StringVar(&thumbsOut, "out", "", "Karelerin yazılacağı dizin")
	thumbsCmd.Flags().StringVar(&thumbsFormat, "format", "jpg", "Kare formatı: jpg, png, webp")
	rootCmd.AddCommand(thumbsCmd)
}
