package app

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// BaseConfig contains the process level configuration shared by every
// command.
type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is either "text" or "json".
	LogFormat string `mapstructure:"log_format"`

	AppName string `mapstructure:"app_name"`

	// Metrics configuration across many providers
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`
}

var defaultConfig = BaseConfig{
	LogLevel:  "info",
	LogFormat: "text",
	AppName:   "scaler",
}

var envBindings = map[string]string{
	"log_level":             "LOG_LEVEL",
	"log_format":            "LOG_FORMAT",
	"app_name":              "APP_NAME",
	"new_relic_license_key": "NEW_RELIC_LICENSE_KEY",
}

// LoadConfig reads the configuration from the optional file at configPath,
// with environment variables taking precedence over file values. A missing
// file is not an error.
func LoadConfig(configPath string) (BaseConfig, error) {
	v := viper.New()

	v.SetDefault("log_level", defaultConfig.LogLevel)
	v.SetDefault("log_format", defaultConfig.LogFormat)
	v.SetDefault("app_name", defaultConfig.AppName)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we check ourselves.
	if len(configPath) > 0 {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return BaseConfig{}, errors.Wrap(err, "failed to load config")
			}
		} else if !os.IsNotExist(err) {
			return BaseConfig{}, errors.Wrap(err, "failed to check if config exists")
		}
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return BaseConfig{}, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(config.AppName) == 0 {
		return BaseConfig{}, errors.New("must specify an application name")
	}

	return config, nil
}
