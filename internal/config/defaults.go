package config

import "strings"

// Default file locations and settings.
const (
	DefaultBooksInput      = "03_Library Systembook.csv"
	DefaultCustomersInput  = "03_Library SystemCustomers.csv"
	DefaultBooksOutput     = "03_Library Systembook_cleaned.csv"
	DefaultCustomersOutput = "03_Library SystemCustomers_cleaned.csv"
	DefaultDBPath          = "library_system.db"
	DefaultLoanPeriod      = 14
)

// Target types with built-in adapters.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	if dbType == TypePostgres {
		return "public"
	}
	return "main"
}

// ApplyTargetDefaults fills unset fields based on the target type.
// dbPath is used as the sqlite file when the target names none.
func ApplyTargetDefaults(t *TargetConfig, dbPath string) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	if t.Type == "" {
		t.Type = TypeSQLite
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	switch t.Type {
	case TypeSQLite:
		if t.Database == "" {
			t.Database = dbPath
		}
		if t.Database == "" {
			t.Database = DefaultDBPath
		}
	case TypePostgres:
		if t.Port == 0 {
			t.Port = 5432
		}
	}
}
