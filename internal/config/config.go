package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DataFile string `mapstructure:"DATA_FILE"`
	DataDir  string `mapstructure:"DATA_DIR"`
	Env      string `mapstructure:"ENV"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("DATA_FILE", "data.csv")
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("ENV", "development")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("DATA_FILE")
	v.BindEnv("DATA_DIR")
	v.BindEnv("ENV")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("DATA_FILE must not be empty")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
