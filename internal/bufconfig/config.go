// Package bufconfig loads the buffer manager's YAML configuration.
package bufconfig

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the on-disk shape of a bufctl config file.
type Config struct {
	Pool struct {
		FrameCount uint64 `mapstructure:"frame_count"`
		PageCount  uint64 `mapstructure:"page_count"`
		DataFile   string `mapstructure:"data_file"`
		HugePages  bool   `mapstructure:"huge_pages"`
	} `mapstructure:"pool"`
	Server struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`
}

// Load reads and unmarshals the YAML config file at path, applying defaults
// for any field left unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("pool.frame_count", 256)
	v.SetDefault("pool.page_count", 512)
	v.SetDefault("pool.data_file", "./data/bufpool.db")
	v.SetDefault("pool.huge_pages", true)
	v.SetDefault("server.log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("bufconfig: read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("bufconfig: unmarshal config: %w", err)
	}
	return &cfg, nil
}

// LogLevel returns the configured log level string as written (it is not
// validated here), defaulting to "info" on an empty value.
func (c *Config) LogLevel() string {
	if c.Server.LogLevel == "" {
		return "info"
	}
	return c.Server.LogLevel
}
