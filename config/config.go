package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/vultisig/featureflags/internal/logging"
	"github.com/vultisig/featureflags/internal/metrics"
)

const envPrefix = "FEATUREFLAGS"

type ServerConfig struct {
	Host string `mapstructure:"host" json:"host,omitempty" split_words:"true"`
	Port int64  `mapstructure:"port" json:"port,omitempty" split_words:"true"`
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit,omitempty" split_words:"true"`
	RateBurst int     `mapstructure:"rate_burst" json:"rate_burst,omitempty" split_words:"true"`
}

type FeatureFlagsConfig struct {
	Server     ServerConfig      `mapstructure:"server" json:"server" split_words:"true"`
	LogFormat  logging.LogFormat `mapstructure:"log_format" json:"log_format,omitempty" split_words:"true"`
	LogLevel   string            `mapstructure:"log_level" json:"log_level,omitempty" split_words:"true"`
	SeedFile   string            `mapstructure:"seed_file" json:"seed_file,omitempty" split_words:"true"`
	HealthPort int               `mapstructure:"health_port" json:"health_port,omitempty" split_words:"true"`
	Metrics    metrics.Config    `mapstructure:"metrics" json:"metrics" split_words:"true"`
}

// ReadConfig loads the config file named by FEATUREFLAGS_CONFIG_NAME
// (default "config") from the working directory, then overlays FEATUREFLAGS_*
// environment variables. A missing file leaves the defaults in place.
func ReadConfig() (*FeatureFlagsConfig, error) {
	configName := os.Getenv(envPrefix + "_CONFIG_NAME")
	if configName == "" {
		configName = "config"
	}
	return ReadConfigFrom(viper.New(), configName, ".")
}

func ReadConfigFrom(v *viper.Viper, configName string, paths ...string) (*FeatureFlagsConfig, error) {
	v.SetConfigName(configName)
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	def := metrics.DefaultConfig()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 30)
	v.SetDefault("log_format", string(logging.FormatText))
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics.enabled", def.Enabled)
	v.SetDefault("metrics.host", def.Host)
	v.SetDefault("metrics.port", def.Port)
	v.SetDefault("metrics.collect_interval", def.CollectInterval)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fail to reading config file, %w", err)
		}
	}

	var cfg FeatureFlagsConfig
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("unable to read environment, %w", err)
	}
	return &cfg, nil
}
