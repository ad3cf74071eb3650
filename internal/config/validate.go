package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize validates cfg and returns a safe copy.
func Normalize(cfg Config) (Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Debug.RestartDelay < 0 {
		return cfg, fmt.Errorf("debug.restart_delay must be >=0")
	}
	if cfg.Exposure.DetectionPeriod <= 0 {
		return cfg, fmt.Errorf("exposure.detection_period must be >0")
	}
	if cfg.Exposure.BackgroundInterval < time.Second {
		return cfg, fmt.Errorf("exposure.background_interval must be >=1s")
	}
	return cfg, nil
}
