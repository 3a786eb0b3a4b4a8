package adapter

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter connects by failing or succeeding without touching a database.
type stubAdapter struct {
	BaseSQLAdapter
	connectErr error
}

func (s *stubAdapter) Connect(_ context.Context, cfg Config) error {
	if s.connectErr != nil {
		return s.connectErr
	}
	s.Attach(&sql.DB{}, cfg)
	return nil
}

func (s *stubAdapter) DialectName() string { return "stub" }

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"postgres", "sqlite"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db", "error should mention the unknown type")
	assert.Contains(t, msg, "[postgres sqlite]")
	assert.Contains(t, msg, "loanclean.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"))

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}

func TestNewAdapter_Unknown(t *testing.T) {
	_, err := NewAdapter(Config{Type: "nope"}, nil)

	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Type)
}

func TestOpen(t *testing.T) {
	Register("stub_ok", func(_ *slog.Logger) Adapter { return &stubAdapter{} })
	Register("stub_fail", func(_ *slog.Logger) Adapter { return &stubAdapter{connectErr: assert.AnError} })

	a, err := Open(context.Background(), Config{Type: "stub_ok", Path: "x.db"}, nil)
	require.NoError(t, err)
	assert.True(t, a.IsConnected())
	assert.Equal(t, "stub", a.DialectName())

	_, err = Open(context.Background(), Config{Type: "stub_fail"}, nil)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to connect to stub_fail")
}
