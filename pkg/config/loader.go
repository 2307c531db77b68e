package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".chartdata"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for chartdata settings.
const envPrefix = "CHARTDATA"

// envKeySeparator replaces the nested key separator in variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars and defaults.
// If configPath is non-empty it is read as the config file and must exist.
// Otherwise .chartdata.yaml is searched in the working directory and $HOME,
// and a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration that LoadConfig yields with no file and
// no environment overrides.
func Default() *Config {
	return &Config{
		Series: SeriesConfig{
			TimeZone:     DefaultSeriesTimeZone,
			Anchor:       DefaultSeriesAnchor,
			MaxItemCount: DefaultSeriesMaxItemCount,
			MaxItemAge:   DefaultSeriesMaxItemAge,
		},
		Table: TableConfig{
			IntervalWidth:    DefaultTableIntervalWidth,
			IntervalPosition: DefaultTableIntervalPosition,
			AutoPrune:        DefaultTableAutoPrune,
		},
		Render: RenderConfig{
			Theme:  DefaultRenderTheme,
			Format: DefaultRenderFormat,
			Width:  DefaultRenderWidth,
			Height: DefaultRenderHeight,
		},
		Logging: LoggingConfig{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			Environment:  DefaultEnvironment,
			MetricsAddr:  DefaultMetricsAddr,
			OTLPInsecure: DefaultOTLPInsecure,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("series.max_item_count", DefaultSeriesMaxItemCount)
	viperCfg.SetDefault("series.max_item_age", DefaultSeriesMaxItemAge)
	viperCfg.SetDefault("series.time_zone", DefaultSeriesTimeZone)
	viperCfg.SetDefault("series.anchor", DefaultSeriesAnchor)

	viperCfg.SetDefault("table.auto_prune", DefaultTableAutoPrune)
	viperCfg.SetDefault("table.interval_width", DefaultTableIntervalWidth)
	viperCfg.SetDefault("table.interval_position", DefaultTableIntervalPosition)

	viperCfg.SetDefault("render.theme", DefaultRenderTheme)
	viperCfg.SetDefault("render.width", DefaultRenderWidth)
	viperCfg.SetDefault("render.height", DefaultRenderHeight)
	viperCfg.SetDefault("render.format", DefaultRenderFormat)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("observability.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("observability.environment", DefaultEnvironment)
	viperCfg.SetDefault("observability.metrics_addr", DefaultMetricsAddr)
}
