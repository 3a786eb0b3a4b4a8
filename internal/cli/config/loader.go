package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/loanclean/internal/config"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// descends into nested keys: LOANCLEAN_TARGET__TYPE sets target.type.
const EnvPrefix = "LOANCLEAN_"

// Config file names looked up in the working directory.
var configFileNames = []string{"loanclean.yaml", "loanclean.yml"}

// flagKeys maps flags whose config key is not the snake_case flag name.
var flagKeys = map[string]string{
	"db-type": "target.type",
	"db-dsn":  "target.database",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
)

type configKey struct{}

// findConfigFile returns the config file to load.
// Priority: explicit path > loanclean.yaml > loanclean.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// LoadConfig loads configuration from defaults, the config file,
// environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"books_input":      DefaultBooksInput,
		"customers_input":  DefaultCustomersInput,
		"books_output":     DefaultBooksOutput,
		"customers_output": DefaultCustomersOutput,
		"db_path":          DefaultDBPath,
		"loan_period":      DefaultLoanPeriod,
		"save_to_db":       false,
		"log_level":        DefaultLogLevel,
		"log_format":       DefaultLogFormat,
		"verbose":          false,
		"output":           DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment: LOANCLEAN_LOAN_PERIOD -> loan_period
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" || f.Name == "help" {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{}
	}
	// An explicit --db-path points an sqlite target at that file even when
	// the config file names another one.
	if flags != nil && flags.Changed("db-path") && !flags.Changed("db-dsn") {
		if t := strings.ToLower(cfg.Target.Type); t == "" || t == sharedcfg.TypeSQLite {
			cfg.Target.Database = cfg.DBPath
		}
	}
	sharedcfg.ApplyTargetDefaults(cfg.Target, cfg.DBPath)
	cfg.Target.ExpandEnv()

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from ctx, falling back to defaults.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok && c != nil {
		return c
	}
	return Default()
}
