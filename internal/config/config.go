// Package config resolves settings from defaults, an optional .env file,
// RECIPEBOOK_* environment variables, an optional config.yaml and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECIPEBOOK"

// Config is the resolved configuration.
type Config struct {
	Catalog       string        `mapstructure:"catalog"`
	SessionDB     string        `mapstructure:"session_db"`
	LogLevel      string        `mapstructure:"log_level"`
	Format        string        `mapstructure:"format"`
	Rules         RulesConfig   `mapstructure:"rules"`
	DuplicateIDs  string        `mapstructure:"duplicate_ids"`
	LockTimeout   time.Duration `mapstructure:"lock_timeout"`
	DefaultAmount float64       `mapstructure:"default_amount"`
}

// RulesConfig toggles the optional commit checks.
type RulesConfig struct {
	RequireAuthor   bool `mapstructure:"require_author"`
	RequireCategory bool `mapstructure:"require_category"`
}

// Options tells Load where to look.
type Options struct {
	Home       string         // base for defaults and "~/"; os.UserHomeDir when empty
	ConfigFile string         // explicit config file; searched for when empty
	EnvFile    string         // dotenv file; ".env" when empty
	Flags      *pflag.FlagSet // bound flags override everything else
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"catalog":    "catalog",
	"session-db": "session_db",
	"log-level":  "log_level",
	"format":     "format",
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home dir: %w", err)
		}
		home = h
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".recipebook"))
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Catalog = expandHome(cfg.Catalog, home)
	cfg.SessionDB = expandHome(cfg.SessionDB, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	dir := filepath.Join(home, ".recipebook")
	v.SetDefault("catalog", filepath.Join(dir, "my_recipes.json"))
	v.SetDefault("session_db", filepath.Join(dir, "session.db"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "json")
	v.SetDefault("rules.require_author", true)
	v.SetDefault("rules.require_category", true)
	v.SetDefault("duplicate_ids", "reject")
	v.SetDefault("lock_timeout", "5s")
	v.SetDefault("default_amount", 100)
}

// Validate rejects values no command can work with.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text, got %q", c.Format)
	}
	switch c.DuplicateIDs {
	case "reject", "regenerate":
	default:
		return fmt.Errorf("duplicate_ids must be reject or regenerate, got %q", c.DuplicateIDs)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must not be negative")
	}
	if c.DefaultAmount < 0 {
		return fmt.Errorf("default_amount must not be negative")
	}
	if strings.TrimSpace(c.Catalog) == "" {
		return fmt.Errorf("catalog path is empty")
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
