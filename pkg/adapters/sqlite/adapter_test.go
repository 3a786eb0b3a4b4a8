package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/loanclean/internal/testutil"
	"github.com/leapstack-labs/loanclean/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    Params
		wantErr bool
	}{
		{name: "defaults", raw: nil, want: Params{BusyTimeout: 5000}},
		{
			name: "typed values",
			raw:  map[string]any{"busy_timeout": 100, "journal_mode": "wal"},
			want: Params{BusyTimeout: 100, JournalMode: "wal"},
		},
		{
			name: "string numbers from env",
			raw:  map[string]any{"busy_timeout": "250", "synchronous": "normal"},
			want: Params{BusyTimeout: 250, Synchronous: "normal"},
		},
		{name: "unknown key", raw: map[string]any{"cache": "shared"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      adapter.Config
		params   Params
		expected string
	}{
		{
			name:     "default path",
			params:   Params{},
			expected: "library_system.db?_pragma=foreign_keys%281%29",
		},
		{
			name:     "path with pragmas",
			cfg:      adapter.Config{Path: "/tmp/lib.db"},
			params:   Params{BusyTimeout: 5000, JournalMode: "wal"},
			expected: "/tmp/lib.db?_pragma=foreign_keys%281%29&_pragma=busy_timeout%285000%29&_pragma=journal_mode%28wal%29",
		},
		{
			name:     "database used as path",
			cfg:      adapter.Config{Database: "other.db"},
			expected: "other.db?_pragma=foreign_keys%281%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildSQLiteDSN(tt.cfg, tt.params))
		})
	}
}

func TestAdapterConnect(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lib.db")

	a := New(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(ctx, adapter.Config{Type: "sqlite", Path: path}))
	defer func() { _ = a.Close() }()

	assert.True(t, a.IsConnected())

	var fk int
	require.NoError(t, a.Conn().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	require.NoError(t, a.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)"))
}

func TestAdapterConnectBadParams(t *testing.T) {
	err := New(nil).Connect(context.Background(), adapter.Config{Params: map[string]any{"busy_timeout": "soon"}})
	assert.Error(t, err)
}
