// Package config loads society-level settings: a YAML file for the static
// bits (name, currency, billing defaults) with environment variables on top
// for anything secret or deploy-specific.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	SocietyName string `yaml:"society_name"`
	Currency    string `yaml:"currency"`

	// Placeholder range (uniform) for water bills at month generation,
	// before metered calculation replaces them.
	WaterBillMin float64 `yaml:"water_bill_min"`
	WaterBillMax float64 `yaml:"water_bill_max"`

	// How often the rollover scheduler re-checks the current month.
	RolloverCheckInterval time.Duration `yaml:"-"`
	RolloverCheckMinutes  int           `yaml:"rollover_check_minutes"`
}

// Defaults mirror the portal's historical behavior.
func defaults() Config {
	return Config{
		SocietyName:          "Society Portal",
		Currency:             "INR",
		WaterBillMin:         35,
		WaterBillMax:         60,
		RolloverCheckMinutes: 60,
	}
}

// Load reads the config file named by SOCIETY_CONFIG (default society.yaml)
// if it exists, then applies env overrides. A missing file is not an error.
func Load() (Config, error) {
	cfg := defaults()

	path := os.Getenv("SOCIETY_CONFIG")
	if path == "" {
		path = "society.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("ROLLOVER_CHECK_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RolloverCheckMinutes = n
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.RolloverCheckInterval = time.Duration(cfg.RolloverCheckMinutes) * time.Minute
	return cfg, nil
}

func (c Config) validate() error {
	if c.WaterBillMin < 0 || c.WaterBillMax < c.WaterBillMin {
		return fmt.Errorf("water bill placeholder range [%v, %v] is invalid", c.WaterBillMin, c.WaterBillMax)
	}
	if c.RolloverCheckMinutes <= 0 {
		return fmt.Errorf("rollover_check_minutes must be positive")
	}
	return nil
}
