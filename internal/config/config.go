package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the advisor configuration.
type Config struct {
	Catalog      string        `mapstructure:"catalog"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	Sequential   bool          `mapstructure:"sequential"`
	Output       string        `mapstructure:"output"`
	Log          LogConfig     `mapstructure:"log"`
	Server       ServerConfig  `mapstructure:"server"`
	Archive      ArchiveConfig `mapstructure:"archive"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen            string        `mapstructure:"listen"`
	APISecret         string        `mapstructure:"api_secret"`
	EnableSwagger     bool          `mapstructure:"enable_swagger"`
	ScanRatePerMinute int           `mapstructure:"scan_rate_per_minute"`
	ScanInterval      time.Duration `mapstructure:"scan_interval"`
}

// ArchiveConfig configures the report archive.
type ArchiveConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Database      string        `mapstructure:"database"`
	RetentionDays int           `mapstructure:"retention_days"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

// Retention returns the archive retention as a duration; zero disables
// purging.
func (a ArchiveConfig) Retention() time.Duration {
	if a.RetentionDays <= 0 {
		return 0
	}
	return time.Duration(a.RetentionDays) * 24 * time.Hour
}

// New returns a viper instance with defaults, config search paths and
// environment binding applied. Callers may bind flags to it before Load.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("advisor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/advisor")
	}

	v.SetDefault("catalog", "")
	v.SetDefault("query_timeout", "10s")
	v.SetDefault("sequential", false)
	v.SetDefault("output", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.listen", ":9560")
	v.SetDefault("server.api_secret", "")
	v.SetDefault("server.enable_swagger", true)
	v.SetDefault("server.scan_rate_per_minute", 6)
	v.SetDefault("server.scan_interval", "0s")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.database", "advisor.db")
	v.SetDefault("archive.retention_days", 0)
	v.SetDefault("archive.purge_interval", "24h")

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, and decodes v. A missing file is
// not an error when no explicit path was given.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
