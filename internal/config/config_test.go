package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("SOCIETY_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("ROLLOVER_CHECK_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", cfg.Currency)
	}
	if cfg.WaterBillMin != 35 || cfg.WaterBillMax != 60 {
		t.Errorf("placeholder range = [%v, %v], want [35, 60]", cfg.WaterBillMin, cfg.WaterBillMax)
	}
	if cfg.RolloverCheckInterval != time.Hour {
		t.Errorf("RolloverCheckInterval = %v, want 1h", cfg.RolloverCheckInterval)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "society.yaml")
	body := "society_name: Sunrise Residency\nwater_bill_min: 40\nwater_bill_max: 80\nrollover_check_minutes: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOCIETY_CONFIG", path)
	t.Setenv("ROLLOVER_CHECK_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocietyName != "Sunrise Residency" {
		t.Errorf("SocietyName = %q", cfg.SocietyName)
	}
	if cfg.WaterBillMax != 80 {
		t.Errorf("WaterBillMax = %v, want 80", cfg.WaterBillMax)
	}
	// Env wins over the file.
	if cfg.RolloverCheckMinutes != 15 {
		t.Errorf("RolloverCheckMinutes = %d, want 15", cfg.RolloverCheckMinutes)
	}
}

func TestLoadRejectsBadRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "society.yaml")
	if err := os.WriteFile(path, []byte("water_bill_min: 90\nwater_bill_max: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOCIETY_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for inverted placeholder range")
	}
}
