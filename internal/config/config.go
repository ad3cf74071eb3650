package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DEBUGPANEL_WEB_ADDR.
const EnvPrefix = "DEBUGPANEL"

// Config holds the debug panel settings.
type Config struct {
	State        StateConfig        `mapstructure:"state" json:"state"`
	Log          LogConfig          `mapstructure:"log" json:"log"`
	Capabilities CapabilitiesConfig `mapstructure:"capabilities" json:"capabilities"`
	Debug        DebugConfig        `mapstructure:"debug" json:"debug"`
	Exposure     ExposureConfig     `mapstructure:"exposure" json:"exposure"`
	Housekeeping HousekeepingConfig `mapstructure:"housekeeping" json:"housekeeping"`
	Web          WebConfig          `mapstructure:"web" json:"web"`
}

// StateConfig locates the persisted application state.
type StateConfig struct {
	Path string `mapstructure:"path" json:"path" validate:"required"`
}

// LogConfig configures the logger.
type LogConfig struct {
	File  string `mapstructure:"file" json:"file"`
	Level string `mapstructure:"level" json:"level" validate:"omitempty,oneof=error warn warning info debug trace"`
}

// CapabilitiesConfig describes the simulated platform.
type CapabilitiesConfig struct {
	ExposureNotification bool `mapstructure:"exposure_notification" json:"exposureNotification"`
}

// DebugConfig tunes the debug workflows.
type DebugConfig struct {
	RestartDelay time.Duration `mapstructure:"restart_delay" json:"restartDelay"`
}

// ExposureConfig drives the simulated exposure notification stack.
type ExposureConfig struct {
	DetectionPeriod     time.Duration `mapstructure:"detection_period" json:"detectionPeriod"`
	BackgroundInterval  time.Duration `mapstructure:"background_interval" json:"backgroundInterval"`
	SimulateMatchEvery  int           `mapstructure:"simulate_match_every" json:"simulateMatchEvery" validate:"gte=0"`
	DenyAuthorization   bool          `mapstructure:"deny_authorization" json:"denyAuthorization"`
	MinimumBuildVersion int           `mapstructure:"minimum_build_version" json:"minimumBuildVersion" validate:"gte=0"`
}

// HousekeepingConfig locates the data wiped by the cleanup tools.
type HousekeepingConfig struct {
	DataDir string `mapstructure:"data_dir" json:"dataDir" validate:"required"`
}

// WebConfig configures the HTTP debug API.
type WebConfig struct {
	Addr string `mapstructure:"addr" json:"addr" validate:"required,hostname_port"`
}

// Load reads configuration from path (or the default location), a .env file
// and DEBUGPANEL_* environment variables. A missing file yields defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	dataDir := DefaultDataDir()
	v.SetDefault("state.path", filepath.Join(dataDir, "state.json"))
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "")
	v.SetDefault("capabilities.exposure_notification", true)
	v.SetDefault("debug.restart_delay", time.Second)
	v.SetDefault("exposure.detection_period", 4*time.Hour)
	v.SetDefault("exposure.background_interval", 15*time.Minute)
	v.SetDefault("exposure.simulate_match_every", 3)
	v.SetDefault("exposure.deny_authorization", false)
	v.SetDefault("exposure.minimum_build_version", 1)
	v.SetDefault("housekeeping.data_dir", dataDir)
	v.SetDefault("web.addr", "127.0.0.1:7071")

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return Normalize(cfg)
}
