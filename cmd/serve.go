package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/api"
	"github.com/mlihgenel/clipeditor-cli/internal/logging"
	"github.com/mlihgenel/clipeditor-cli/internal/ui"
)

var (
	serveTrim trimFlags
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Düzenleme servisini HTTP üzerinden sun",
	Long: `Kırpma ve düzenleme kaydını yerel bir HTTP servisi olarak açar.

Uç noktalar:
  GET  /health               servis durumu
  POST /edits                düzenlemeyi uygula
  GET  /edits?asset=<yol>    videonun kayıtlı düzenlemesi
  GET  /edits?limit=20       son düzenlemeler

Örnekler:
  clipeditor-cli serve
  clipeditor-cli serve --host 0.0.0.0 --port 9000 --codec reencode`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	serveTrim.applyDefaults(cmd)
	if !flagChanged(cmd, "log-level") && logLevel == "" {
		logLevel = "info"
	}

	tr, _, err := serveTrim.trimmer(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(tr, true)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := api.NewServer(api.ServerConfig{
		Host:      serveHost,
		Port:      servePort,
		Service:   a.service,
		Records:   a.store,
		Probe:     a.prober,
		Logger:    logging.WithComponent(a.logger, "api"),
		StartTime: time.Now(),
		Version:   appVersion,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	ui.PrintInfo(fmt.Sprintf("Servis dinliyor: http://%s", srv.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	ui.PrintInfo("Servis kapatılıyor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveTrim.register(serveCmd, false)
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Dinlenecek adres")
	serveCmd.Flags().IntVar(&servePort, "port", 8787, "Dinlenecek port")
	rootCmd.AddCommand(serveCmd)
}
