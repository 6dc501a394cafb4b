package config

import (
	"fmt"
	"os"
	"strings"

	"aeroclub-service/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// thresholdEntry mirrors one alert type's section in the thresholds
// YAML file.
type thresholdEntry struct {
	DaysInfo      int   `yaml:"days_info"`
	DaysWarning   int   `yaml:"days_warning"`
	DaysCritical  int   `yaml:"days_critical"`
	BlockOnExpiry *bool `yaml:"block_on_expiry"`
	SendEmail     *bool `yaml:"send_email"`
}

// LoadThresholdDefaults reads per-type threshold defaults from a YAML
// file keyed by alert type name (lowercase). Types absent from the file
// keep the hardcoded 60/30/7 fallback; an empty path yields an empty
// map.
//
//	medical:
//	  days_info: 60
//	  days_warning: 30
//	  days_critical: 7
func LoadThresholdDefaults(path string) (map[entity.AlertType]entity.AlertConfig, error) {
	defaults := make(map[entity.AlertType]entity.AlertConfig)
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}

	var entries map[string]thresholdEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse thresholds file: %w", err)
	}

	for name, e := range entries {
		t := entity.AlertType(strings.ToUpper(name))
		cfg := entity.DefaultAlertConfig(t)
		if e.DaysInfo > 0 {
			cfg.DaysInfo = e.DaysInfo
		}
		if e.DaysWarning > 0 {
			cfg.DaysWarning = e.DaysWarning
		}
		if e.DaysCritical > 0 {
			cfg.DaysCritical = e.DaysCritical
		}
		if e.BlockOnExpiry != nil {
			cfg.BlockOnExpiry = *e.BlockOnExpiry
		}
		if e.SendEmail != nil {
			cfg.SendEmail = *e.SendEmail
		}
		if cfg.DaysInfo <= cfg.DaysWarning || cfg.DaysWarning <= cfg.DaysCritical {
			return nil, fmt.Errorf("thresholds for %s must be strictly decreasing (info > warning > critical)", name)
		}
		defaults[t] = cfg
	}
	return defaults, nil
}
