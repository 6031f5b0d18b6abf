package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/config"
	"github.com/mlihgenel/clipeditor-cli/internal/installer"
	"github.com/mlihgenel/clipeditor-cli/internal/media"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var doctorInstall bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Bağımlılıkları ve ayarları kontrol et",
	Long: `ffmpeg/ffprobe kurulumunu, düzenleme veritabanı yolunu ve proje
ayarlarını kontrol eder. --install ile eksik ffmpeg paket yöneticisiyle
kurulur.

Örnekler:
  clipeditor-cli doctor
  clipeditor-cli doctor --install`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.PrintBanner(appVersion)

	tools := media.CheckTools(cmd.Context())
	rows := make([][]string, 0, len(tools))
	for _, t := range tools {
		status := "yok"
		if t.Available {
			status = "hazır"
		}
		rows = append(rows, []string{t.Name, status, valueOr(t.Path, "-"), valueOr(t.Version, "-")})
	}
	ui.PrintTable([]string{"Araç", "Durum", "Yol", "Sürüm"}, rows)

	db, err := config.ResolveDBPath(dbPath)
	if err != nil {
		db = "çözülemedi: " + err.Error()
	}
	cfgDir, err := config.Dir()
	if err != nil {
		cfgDir = "çözülemedi: " + err.Error()
	}
	ui.PrintTable([]string{"Ayar", "Değer"}, [][]string{
		{"Ayar dizini", cfgDir},
		{"Veritabanı", db},
		{"Proje ayarı", valueOr(activeProjectPath, "-")},
		{"Çıktı dizini", valueOr(outputDir, "kaynak dizin")},
	})

	missing := installer.MissingTools()
	if len(missing) == 0 {
		ui.PrintSuccess("Tüm bağımlılıklar hazır.")
		return nil
	}
	ui.PrintWarning(fmt.Sprintf("Eksik araçlar: %s", strings.Join(missing, ", ")))

	info := installer.FFmpegInstall(installer.DetectPackageManager())
	if !doctorInstall {
		if info.Supported {
			ui.PrintInfo(fmt.Sprintf("Kurmak için: %s  (veya 'clipeditor-cli doctor --install')", info.Description))
		} else {
			ui.PrintInfo(fmt.Sprintf("Manuel kurulum: %s", info.ManualURL))
		}
		return nil
	}

	ui.PrintInfo("FFmpeg kuruluyor...")
	ran, err := installer.InstallFFmpeg(cmd.Context())
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Kurulum tamamlandı: %s", ran))
	return nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorInstall, "install", false, "Eksik ffmpeg'i paket yöneticisiyle kur")
	rootCmd.AddCommand(doctorCmd)
}
