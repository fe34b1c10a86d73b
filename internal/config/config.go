// Package config loads taktplan settings from defaults, an optional config
// file and TAKTPLAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. TAKTPLAN_DATABASE_PATH.
const EnvPrefix = "TAKTPLAN"

// Config is the complete taktplan configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	// Path is the SQLite file. ":memory:" keeps everything in process.
	Path string `mapstructure:"path"`
}

// LoggingConfig controls the slog handler and optional rotating file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
	// File, when set, receives a copy of every record with size-based rotation.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// AuditConfig names who mutations are attributed to.
type AuditConfig struct {
	Actor string `mapstructure:"actor"`
}

// ScheduleConfig holds scheduling defaults for the CLI.
type ScheduleConfig struct {
	// SkipWeekends is the default for shift --skip-weekends.
	SkipWeekends bool `mapstructure:"skip_weekends"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDatabasePath()},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Audit:    AuditConfig{Actor: defaultActor()},
		Schedule: ScheduleConfig{SkipWeekends: false},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("database.path", defaults.Database.Path)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	v.SetDefault("audit.actor", defaults.Audit.Actor)
	v.SetDefault("schedule.skip_weekends", defaults.Schedule.SkipWeekends)
}

// New returns a viper instance with defaults and environment binding in
// place. When configFile is empty the default location is read if present.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = ConfigFile()
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || os.IsNotExist(err)) {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// ConfigDir returns the user's taktplan config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taktplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taktplan"
	}
	return filepath.Join(home, ".config", "taktplan")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taktplan.db"
	}
	return filepath.Join(home, ".taktplan", "taktplan.db")
}

func defaultActor() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return "taktplan"
}
