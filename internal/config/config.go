package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"taskmaster/internal/i18n"
)

type Config struct {
	DataPath   string `json:"data_path"`
	Language   string `json:"language"`
	WebEnabled bool   `json:"web_enabled"`
	WebPort    int    `json:"web_port"`
}

func Default() Config {
	return Config{Language: i18n.LanguageEn, WebPort: 8080}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskmaster", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file and applies environment overrides on top. A
// missing file yields the defaults, still with overrides applied.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(config), nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return applyEnv(config), nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// applyEnv lets a .env file or the environment override individual keys,
// so a config file is never required to relocate the data file.
func applyEnv(cfg Config) Config {
	_ = godotenv.Load(".env")

	if value := os.Getenv("TASKMASTER_DATA_PATH"); value != "" {
		cfg.DataPath = value
	}
	if value := os.Getenv("TASKMASTER_LANG"); value != "" {
		cfg.Language = value
	}
	if value := os.Getenv("TASKMASTER_WEB_PORT"); value != "" {
		if port, err := strconv.Atoi(value); err == nil {
			cfg.WebPort = port
		}
	}
	return cfg
}
