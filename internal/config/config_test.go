package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/loanclean/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/loanclean/pkg/adapters/sqlite"
)

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name   string
		target TargetConfig
		dbPath string
		want   TargetConfig
	}{
		{
			name:   "empty target becomes sqlite at db path",
			dbPath: "lib.db",
			want:   TargetConfig{Type: "sqlite", Database: "lib.db", Schema: "main"},
		},
		{
			name: "sqlite falls back to default file",
			want: TargetConfig{Type: "sqlite", Database: DefaultDBPath, Schema: "main"},
		},
		{
			name:   "explicit sqlite database wins over db path",
			target: TargetConfig{Type: "sqlite", Database: "other.db"},
			dbPath: "lib.db",
			want:   TargetConfig{Type: "sqlite", Database: "other.db", Schema: "main"},
		},
		{
			name:   "type is lowercased",
			target: TargetConfig{Type: " SQLite "},
			want:   TargetConfig{Type: "sqlite", Database: DefaultDBPath, Schema: "main"},
		},
		{
			name:   "postgres gets port and schema",
			target: TargetConfig{Type: "postgres", Database: "library"},
			dbPath: "lib.db",
			want:   TargetConfig{Type: "postgres", Database: "library", Port: 5432, Schema: "public"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target
			ApplyTargetDefaults(&got, tt.dbPath)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  *TargetConfig
		wantErr string
	}{
		{name: "nil", target: nil, wantErr: "not configured"},
		{name: "missing type", target: &TargetConfig{}, wantErr: "target.type is required"},
		{name: "unknown type", target: &TargetConfig{Type: "oracle"}, wantErr: `"oracle" is not supported`},
		{name: "sqlite without file", target: &TargetConfig{Type: "sqlite"}, wantErr: "sqlite file path"},
		{name: "postgres without database", target: &TargetConfig{Type: "postgres", Host: "db"}, wantErr: "required for postgres"},
		{name: "postgres bad port", target: &TargetConfig{Type: "postgres", Database: "lib", Port: 70000}, wantErr: "out of range"},
		{name: "valid sqlite", target: &TargetConfig{Type: "sqlite", Database: "lib.db"}},
		{name: "valid postgres url", target: &TargetConfig{Type: "postgres", Database: "postgres://u@h/lib"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LIB_DB_PASSWORD", "s3cret")
	t.Setenv("LIB_DB_HOST", "db.internal")

	target := &TargetConfig{
		Type:     "postgres",
		Host:     "${LIB_DB_HOST}",
		User:     "${LIB_DB_USER_UNSET}",
		Password: "${LIB_DB_PASSWORD}",
		Database: "library",
	}
	target.ExpandEnv()

	assert.Equal(t, "db.internal", target.Host)
	assert.Equal(t, "${LIB_DB_USER_UNSET}", target.User)
	assert.Equal(t, "s3cret", target.Password)
	assert.Equal(t, "****", target.Redacted().Password)
	assert.Equal(t, "s3cret", target.Password, "Redacted must not modify the receiver")
}

func TestToAdapterConfig(t *testing.T) {
	sqlite := TargetConfig{Type: "sqlite", Database: "lib.db", Params: map[string]any{"busy_timeout": 100}}
	cfg := sqlite.ToAdapterConfig()
	assert.Equal(t, "lib.db", cfg.Path)
	assert.Equal(t, "lib.db", cfg.Database)
	assert.Equal(t, 100, cfg.Params["busy_timeout"])

	pg := TargetConfig{Type: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", Database: "lib", Schema: "public"}
	cfg = pg.ToAdapterConfig()
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "public", cfg.Schema)
}
