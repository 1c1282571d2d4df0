package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Simplici0/printdesk/internal/etsy"
	"github.com/Simplici0/printdesk/internal/pricing"
)

// Settings is the offline calculator's settings file.
type Settings struct {
	Currency  string                    `toml:"currency"`
	CostModel pricing.CostModelSettings `toml:"cost_model"`
	Etsy      EtsySettings              `toml:"etsy"`
}

// EtsySettings selects the fee schedule used by the marketplace calculator.
type EtsySettings struct {
	Region        string `toml:"region"`
	SchedulesPath string `toml:"schedules_path,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Currency:  defaultCurrency,
		CostModel: pricing.DefaultCostModelSettings(),
		Etsy:      EtsySettings{Region: etsy.DefaultRegion},
	}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "printdesk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "printdesk")
}

// SettingsPath returns the default settings file path.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "settings.toml")
}

// LoadSettings reads the settings file at path, returning defaults if it
// doesn't exist. Keys absent from the file keep their default value.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}

	return cfg, nil
}

// SaveSettings writes the settings file to path.
func SaveSettings(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
