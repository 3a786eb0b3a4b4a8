package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds the configuration flags to fs. Only flags the user
// changes override the config file and environment. The --config flag
// itself is registered by the root command.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("books-input", DefaultBooksInput, "Raw book loan extract")
	fs.String("customers-input", DefaultCustomersInput, "Raw customer extract")
	fs.String("books-output", DefaultBooksOutput, "Cleaned book loan file")
	fs.String("customers-output", DefaultCustomersOutput, "Cleaned customer file")
	fs.String("db-path", DefaultDBPath, "SQLite database file")
	fs.String("db-type", "", "Database target type (sqlite|postgres)")
	fs.String("db-dsn", "", "Database name, file path or postgres:// URL")
	fs.Int("loan-period", DefaultLoanPeriod, "Days a book may be borrowed before it is overdue")
	fs.Bool("save-to-db", false, "Also write the cleaned data to the database")
	fs.String("log-level", DefaultLogLevel, "Log level (debug|info|warn|error)")
	fs.String("log-format", DefaultLogFormat, "Log format (text|json)")
	fs.BoolP("verbose", "v", false, "Verbose output (debug logging)")
	fs.StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml)")
}
