// Package config provides the shared database target configuration.
// It is decoupled from CLI concerns so the store and the commands can
// agree on how a target maps onto an adapter.
package config

import (
	"os"
	"regexp"

	"github.com/leapstack-labs/loanclean/pkg/core"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, postgres

	// File path for sqlite, database name or postgres:// URL for postgres.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific settings (e.g., sqlite pragmas)
	Params map[string]any `koanf:"params"`
}

// ToAdapterConfig converts the target into the adapter layer's config.
func (t *TargetConfig) ToAdapterConfig() core.AdapterConfig {
	cfg := core.AdapterConfig{
		Type:     t.Type,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	if t.Type == TypeSQLite {
		cfg.Path = t.Database
	}
	return cfg
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as-is.
func ExpandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok && val != "" {
			return val
		}
		return match
	})
}

// ExpandEnv expands environment variables in the credential and address
// fields.
func (t *TargetConfig) ExpandEnv() {
	if t == nil {
		return
	}
	t.Password = ExpandEnvVars(t.Password)
	t.User = ExpandEnvVars(t.User)
	t.Host = ExpandEnvVars(t.Host)
	t.Database = ExpandEnvVars(t.Database)
}

// Redacted returns a copy safe for logging.
func (t TargetConfig) Redacted() TargetConfig {
	if t.Password != "" {
		t.Password = "****"
	}
	return t
}
