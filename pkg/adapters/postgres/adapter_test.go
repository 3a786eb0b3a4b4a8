package postgres

import (
	"context"
	"testing"

	"github.com/leapstack-labs/loanclean/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "library",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=library sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode and schema",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "library",
				Username: "admin",
				Schema:   "cleaned",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=library sslmode=require user=admin search_path=cleaned",
		},
		{
			name:     "defaults",
			config:   adapter.Config{Database: "library"},
			expected: "host=localhost port=5432 dbname=library sslmode=disable",
		},
		{
			name:     "url passthrough",
			config:   adapter.Config{Database: "postgres://u:p@db:5433/library?sslmode=verify-full"},
			expected: "postgres://u:p@db:5433/library?sslmode=verify-full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp, "New() should return non-nil adapter")
	assert.Nil(t, adp.Conn(), "connection should be nil before Connect")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "postgres", adp.DialectName())

	var _ adapter.Adapter = (*Adapter)(nil)
}

func TestAdapter_ExecNotConnected(t *testing.T) {
	err := New(nil).Exec(context.Background(), "SELECT 1")
	require.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Get("postgres")
	require.True(t, ok, "should be able to get postgres factory")

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "postgres", pg.DialectName())
}

func TestAdapter_Close(t *testing.T) {
	// Close should not error even without connection
	assert.NoError(t, New(nil).Close())
}
