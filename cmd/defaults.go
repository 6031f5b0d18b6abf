package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/clipeditor-cli/internal/config"
)

const (
	envOutput     = "CLIPEDITOR_OUTPUT"
	envDB         = "CLIPEDITOR_DB"
	envLogLevel   = "CLIPEDITOR_LOG_LEVEL"
	envWorkers    = "CLIPEDITOR_WORKERS"
	envQuality    = "CLIPEDITOR_QUALITY"
	envCodec      = "CLIPEDITOR_CODEC"
	envConflict   = "CLIPEDITOR_ON_CONFLICT"
	envRetry      = "CLIPEDITOR_RETRY"
	envRetryDelay = "CLIPEDITOR_RETRY_DELAY"
	envReport     = "CLIPEDITOR_REPORT"
	envProfile    = "CLIPEDITOR_PROFILE"
)

// Öncelik sırası: açık flag, ortam değişkeni, .clipeditor.toml, uygulama
// ayarı, flag varsayılanı.
func applyRootDefaults(cmd *cobra.Command) error {
	appCfg := config.LoadConfig()

	if !flagChanged(cmd, "output") {
		if v := strings.TrimSpace(os.Getenv(envOutput)); v != "" {
			outputDir = v
		} else if activeProjectConfig != nil && strings.TrimSpace(activeProjectConfig.DefaultOutput) != "" {
			outputDir = strings.TrimSpace(activeProjectConfig.DefaultOutput)
		} else if appCfg.DefaultOutputDir != "" {
			outputDir = appCfg.DefaultOutputDir
		}
	}

	if !flagChanged(cmd, "db") {
		if v := strings.TrimSpace(os.Getenv(envDB)); v != "" {
			dbPath = v
		}
	}

	if !flagChanged(cmd, "log-level") {
		if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
			logLevel = v
		} else if logLevel == "" {
			logLevel = appCfg.LogLevel
		}
	}

	return nil
}

// flagChanged yerel veya kalıcı flag'in elle verilip verilmediğini söyler.
// Flag tanımlı değilse false döner.
func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}

func applyWorkersDefault(cmd *cobra.Command, flagName string, value *int) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v, ok := readEnvInt(envWorkers); ok && v > 0 {
		*value = v
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.Workers > 0 {
		*value = activeProjectConfig.Workers
	}
}

func applyQualityDefault(cmd *cobra.Command, flagName string, value *int) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v, ok := readEnvInt(envQuality); ok && v >= 0 {
		*value = v
		return
	}
	if activeProjectConfig != nil && activeProjectConfig.Quality > 0 {
		*value = activeProjectConfig.Quality
	}
}

func applyStringDefault(cmd *cobra.Command, flagName, env string, fromConfig func(*config.ProjectConfig) string, value *string) {
	if flagChanged(cmd, flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if activeProjectConfig != nil {
		if v := strings.TrimSpace(fromConfig(activeProjectConfig)); v != "" {
			*value = strings.ToLower(v)
		}
	}
}

func applyCodecDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envCodec, func(c *config.ProjectConfig) string { return c.Codec }, value)
}

func applyOnConflictDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envConflict, func(c *config.ProjectConfig) string { return c.OnConflict }, value)
}

func applyReportDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envReport, func(c *config.ProjectConfig) string { return c.ReportFormat }, value)
}

func applyProfileDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envProfile, func(c *config.ProjectConfig) string { return c.Profile }, value)
}

func applyRetryDefaults(cmd *cobra.Command, retryFlag string, retryValue *int, delayFlag string, delayValue *time.Duration) {
	if !flagChanged(cmd, retryFlag) {
		if v, ok := readEnvInt(envRetry); ok && v >= 0 {
			*retryValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.Retry > 0 {
			*retryValue = activeProjectConfig.Retry
		}
	}

	if !flagChanged(cmd, delayFlag) {
		if v, ok := readEnvDuration(envRetryDelay); ok {
			*delayValue = v
		} else if activeProjectConfig != nil && activeProjectConfig.RetryDelay > 0 {
			*delayValue = time.Duration(activeProjectConfig.RetryDelay)
		}
	}
}

func readEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
