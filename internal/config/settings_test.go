package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Simplici0/printdesk/internal/pricing"
)

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadSettings(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.CostModel != pricing.DefaultCostModelSettings() {
		t.Fatalf("expected default cost model, got %+v", cfg.CostModel)
	}
	if cfg.Etsy.Region != "US" {
		t.Fatalf("Region=%q, want US", cfg.Etsy.Region)
	}
}

func TestLoadSettings_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := []byte(`
currency = "EUR"

[cost_model]
labor_rate_per_hour = 40
buffer_factor = 1.25

[etsy]
region = "UK"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if cfg.Currency != "EUR" || cfg.Etsy.Region != "UK" {
		t.Fatalf("unexpected settings: %+v", cfg)
	}
	if cfg.CostModel.LaborRatePerHour != 40 || cfg.CostModel.BufferFactor != 1.25 {
		t.Fatalf("overrides not applied: %+v", cfg.CostModel)
	}
	if cfg.CostModel.VATPercent != 15 || cfg.CostModel.PrinterCost != 500 {
		t.Fatalf("defaults lost: %+v", cfg.CostModel)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := DefaultSettings()
	want.CostModel.UptimePercent = 55
	want.Etsy.SchedulesPath = "/etc/printdesk/fees.yaml"

	if err := SaveSettings(path, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadSettings_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[cost_model\n"), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSettingsPath_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := SettingsPath(); got != filepath.Join("/tmp/xdg", "printdesk", "settings.toml") {
		t.Fatalf("SettingsPath()=%q", got)
	}
}
