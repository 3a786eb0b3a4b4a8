package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/loanclean/pkg/adapter"
)

// ValidateTarget checks that the target names a registered adapter and
// carries what that adapter needs to connect.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return errors.New("target is not configured")
	}
	if t.Type == "" {
		return errors.New("target.type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return fmt.Errorf("target.type %q is not supported (available: %s)",
			t.Type, strings.Join(adapter.ListAdapters(), ", "))
	}

	switch t.Type {
	case TypeSQLite:
		if t.Database == "" {
			return errors.New("target.database (sqlite file path) is required")
		}
	case TypePostgres:
		if t.Database == "" {
			return errors.New("target.database is required for postgres")
		}
		if t.Port < 0 || t.Port > 65535 {
			return fmt.Errorf("target.port %d is out of range", t.Port)
		}
	}
	return nil
}
