// Package config loads productdesc settings with Viper from a
// .productdesc.yml file, PRODUCTDESC_* environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PRODUCTDESC_STORAGE_DRIVER.
const EnvPrefix = "PRODUCTDESC"

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Preview   PreviewConfig   `mapstructure:"preview"`
	Autosave  AutosaveConfig  `mapstructure:"autosave"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres mysql mongo"`
	// DSN wins over the discrete fields below when set.
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=0,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`

	MongoURI      string `mapstructure:"mongo_uri" validate:"required_if=Driver mongo"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Driver mongo"`
}

type TemplatesConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type PreviewConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	Highlight      time.Duration `mapstructure:"highlight" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type AutosaveConfig struct {
	// Schedule is a cron spec; empty disables autosave.
	Schedule string `mapstructure:"schedule"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.host", "localhost")
	v.SetDefault("storage.port", 0)
	v.SetDefault("storage.user", "")
	v.SetDefault("storage.password", "")
	v.SetDefault("storage.database", "productdesc")
	v.SetDefault("storage.ssl_mode", "disable")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_database", "productdesc")
	v.SetDefault("templates.dir", "")
	v.SetDefault("templates.watch", true)
	v.SetDefault("preview.host", "localhost")
	v.SetDefault("preview.port", 7331)
	v.SetDefault("preview.highlight", "2s")
	v.SetDefault("preview.allowed_origins", []string{})
	v.SetDefault("autosave.schedule", "@every 30s")
}

// BindEnv enables PRODUCTDESC_* overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// viper does not split env-provided lists
	if len(cfg.Preview.AllowedOrigins) == 1 && strings.Contains(cfg.Preview.AllowedOrigins[0], ",") {
		cfg.Preview.AllowedOrigins = strings.Split(cfg.Preview.AllowedOrigins[0], ",")
	}
	cfg.Templates.Dir = ExpandHome(cfg.Templates.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultSQLitePath is where the embedded database lives when no DSN is
// configured.
func DefaultSQLitePath() string {
	return ExpandHome("~/.local/share/productdesc/productdesc.db")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
