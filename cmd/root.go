package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/config"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	verbose   bool
	outputDir string
	dbPath    string
	logLevel  string

	appVersion = "dev"
	appCommit  = ""
	appDate    = ""

	// activeProjectConfig çalışma dizininden yukarı doğru bulunan
	// .clipeditor.toml; yoksa nil.
	activeProjectConfig *config.ProjectConfig
	activeProjectPath   string
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appCommit = strings.TrimSpace(commit)
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	commit := appCommit
	if commit == "" {
		commit = "none"
	}
	return fmt.Sprintf(
		"ClipEditor CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, commit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "clipeditor-cli",
	Short: "ClipEditor CLI - video kirpma ve dongu duzenleyici",
	Long: `ClipEditor CLI: videolarınızı zaman çizelgesi üzerinde kırpın, döngü
bölgesi belirleyin ve düzenlemeyi kaydedin.

Kırpma ffmpeg ile yerel olarak yapılır; düzenlemeler yerel bir SQLite
veritabanında saklanır ve video yeniden açıldığında geri yüklenir.

Örnekler:
  clipeditor-cli edit klip.mp4
  clipeditor-cli apply klip.mp4 --start 2 --end 00:08.5 --loop-start 3 --loop-end 5
  clipeditor-cli show klip_edited.mp4
  clipeditor-cli thumbs klip.mp4 --count 20 --out ./kareler
  clipeditor-cli render ./klipler --recursive --report html
  clipeditor-cli serve --port 8787
  clipeditor-cli doctor`,
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadProjectDefaults(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintBanner(appVersion)
		return cmd.Help()
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	return rootCmd.Execute()
}

func loadProjectDefaults(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, path, err := config.LoadProjectConfig(wd)
	if err != nil {
		return err
	}
	activeProjectConfig = cfg
	activeProjectPath = path
	if path != "" && verbose {
		ui.PrintInfo(fmt.Sprintf("Proje ayarları: %s", path))
	}
	return applyRootDefaults(cmd)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Detaylı çıktı modu")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Çıktı dizini (varsayılan: kaynak dizin)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Düzenleme veritabanı (varsayılan: ~/.clipeditor/edits.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log seviyesi: debug, info, warn, error")

	SetVersionInfo(appVersion, appCommit, appDate)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		_ = cmd.Usage()
		return err
	})
}
