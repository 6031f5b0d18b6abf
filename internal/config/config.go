package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig kullanıcı bazlı uygulama yapılandırmasını tutar
type AppConfig struct {
	DefaultOutputDir string `json:"default_output_dir,omitempty"`
	DBPath           string `json:"db_path,omitempty"`
	LogLevel         string `json:"log_level,omitempty"`
}

// Dir yapılandırma dizinini döner (~/.clipeditor).
// CLIPEDITOR_HOME ile değiştirilebilir.
func Dir() (string, error) {
	if env := os.Getenv("CLIPEDITOR_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipeditor"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig yapılandırmayı dosyadan okur. Dosya yoksa veya bozuksa
// varsayılan yapılandırma döner.
func LoadConfig() *AppConfig {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &AppConfig{}
	}
	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}
	}
	return &cfg
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDBPath düzenleme veritabanının yolunu döner: önce verilen değer,
// sonra config, en son ~/.clipeditor/edits.db.
func ResolveDBPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg := LoadConfig(); cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "edits.db"), nil
}
