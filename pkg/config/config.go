// Package config loads application configuration from file, environment, and
// flags via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/sqlgate/sqlgate/pkg/sqlite"
)

const Version = "0.1.0"

// Config holds application-wide configuration. The API key and database
// handle derived from it are constructed once at startup and passed into the
// server explicitly; nothing here is mutated after Load.
type Config struct {
	ListenAddr string        `mapstructure:"listenAddr"`
	APIKey     string        `mapstructure:"apiKey"`
	DB         sqlite.Config `mapstructure:"db"`
	CORS       CORSConfig    `mapstructure:"cors"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads config from file or environment. Environment variables use the
// SQLGATE_ prefix with underscores for nesting, e.g. SQLGATE_DB_PATH.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sqlgate")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.SetDefault("listenAddr", ":8080")
	v.SetDefault("db.path", "sqlgate.db")
	v.SetDefault("db.busyTimeout", 5)
	v.SetDefault("db.walMode", true)
	v.SetDefault("metrics.addr", ":9100")

	v.AutomaticEnv()
	v.SetEnvPrefix("SQLGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}
