// Package config loads and validates loanclean's CLI configuration.
//
// The database target type is shared with the store through
// internal/config and re-exported here via a type alias.
package config

import (
	sharedcfg "github.com/leapstack-labs/loanclean/internal/config"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// ExportConfig selects the columns written to the cleaned files.
type ExportConfig struct {
	LoanColumns     []string `koanf:"loan_columns"`
	CustomerColumns []string `koanf:"customer_columns"`
}

// Config holds all CLI configuration options.
type Config struct {
	BooksInput      string        `koanf:"books_input"`
	CustomersInput  string        `koanf:"customers_input"`
	BooksOutput     string        `koanf:"books_output"`
	CustomersOutput string        `koanf:"customers_output"`
	DBPath          string        `koanf:"db_path"`
	LoanPeriod      int           `koanf:"loan_period"`
	SaveToDB        bool          `koanf:"save_to_db"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	Verbose         bool          `koanf:"verbose"`
	OutputFormat    string        `koanf:"output"`
	Target          *TargetConfig `koanf:"target"`
	Export          ExportConfig  `koanf:"export"`
}

// Default configuration values - file defaults come from internal/config
const (
	DefaultBooksInput      = sharedcfg.DefaultBooksInput
	DefaultCustomersInput  = sharedcfg.DefaultCustomersInput
	DefaultBooksOutput     = sharedcfg.DefaultBooksOutput
	DefaultCustomersOutput = sharedcfg.DefaultCustomersOutput
	DefaultDBPath          = sharedcfg.DefaultDBPath
	DefaultLoanPeriod      = sharedcfg.DefaultLoanPeriod
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Default returns a Config populated with defaults only.
func Default() *Config {
	cfg := &Config{
		BooksInput:      DefaultBooksInput,
		CustomersInput:  DefaultCustomersInput,
		BooksOutput:     DefaultBooksOutput,
		CustomersOutput: DefaultCustomersOutput,
		DBPath:          DefaultDBPath,
		LoanPeriod:      DefaultLoanPeriod,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		OutputFormat:    DefaultOutput,
		Target:          &TargetConfig{},
	}
	sharedcfg.ApplyTargetDefaults(cfg.Target, cfg.DBPath)
	return cfg
}

// AdapterTarget returns the target used by the database sink and inspect.
func (c *Config) AdapterTarget() TargetConfig {
	if c.Target == nil {
		t := TargetConfig{}
		sharedcfg.ApplyTargetDefaults(&t, c.DBPath)
		return t
	}
	return *c.Target
}
