package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			var mock sqlmock.Sqlmock
			if tt.setupDB {
				db, m, err := sqlmock.New()
				require.NoError(t, err)
				m.ExpectClose()
				base.Attach(db, Config{Type: "sqlite"})
				mock = m
			}

			require.NoError(t, base.Close())
			assert.False(t, base.IsConnected())
			if mock != nil {
				assert.NoError(t, mock.ExpectationsWereMet())
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errIs     error
		errMsg    string
	}{
		{
			name:    "exec without connection",
			setupDB: false,
			sql:     "DELETE FROM loans",
			errIs:   ErrNotConnected,
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM loans").WillReturnResult(sqlmock.NewResult(0, 3))
			},
			sql: "DELETE FROM loans",
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM books").WillReturnError(assert.AnError)
			},
			sql:    "DELETE FROM books",
			errIs:  assert.AnError,
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(context.Background(), tt.sql)
			if tt.errIs == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.errIs)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestBaseSQLAdapter_Conn(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.Nil(t, base.Conn())
	assert.False(t, base.IsConnected())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	base.Attach(db, Config{Type: "postgres", Database: "library"})
	assert.Same(t, db, base.Conn())
	assert.Equal(t, "library", base.Cfg.Database)
}
