// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornweb/identity/pkg/errutil"
)

// fakeMigrate is a scripted migrateIface.
type fakeMigrate struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	srcErr     error
	dbErr      error
}

func (f *fakeMigrate) Up() error                      { return f.upErr }
func (f *fakeMigrate) Down() error                    { return f.downErr }
func (f *fakeMigrate) Version() (uint, bool, error)   { return f.version, f.dirty, f.versionErr }
func (f *fakeMigrate) Close() (source, db error)      { return f.srcErr, f.dbErr }

func TestRewriteScheme(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres scheme", "postgres://user:pw@localhost:5432/identity", "pgx5://user:pw@localhost:5432/identity"},
		{"postgresql scheme", "postgresql://localhost/identity", "pgx5://localhost/identity"},
		{"already pgx5", "pgx5://localhost/identity", "pgx5://localhost/identity"},
		{"unrelated scheme", "mysql://localhost/identity", "mysql://localhost/identity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteScheme(tt.in))
		})
	}
}

func TestMigrator_Up(t *testing.T) {
	t.Run("applies pending migrations", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{}}
		assert.NoError(t, m.Up())
	})

	t.Run("no change is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Up())
	})

	t.Run("wraps real failures", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: errors.New("syntax error")}}
		err := m.Up()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
	})
}

func TestMigrator_Down(t *testing.T) {
	t.Run("no change is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Down())
	})

	t.Run("wraps real failures", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: errors.New("locked")}}
		err := m.Down()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_DOWN_FAILED")
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("returns current version", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{version: 3, dirty: true}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), version)
		assert.True(t, dirty)
	})

	t.Run("unapplied schema reads as version zero", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)
		assert.False(t, dirty)
	})

	t.Run("wraps real failures", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: errors.New("connection refused")}}
		_, _, err := m.Version()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Close(t *testing.T) {
	t.Run("clean close", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{}}
		assert.NoError(t, m.Close())
	})

	t.Run("reports source failure", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{srcErr: errors.New("source busted")}}
		err := m.Close()
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "component", "source")
	})

	t.Run("reports database failure", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{dbErr: errors.New("db busted")}}
		err := m.Close()
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "component", "database")
	})

	t.Run("reports combined failure", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{srcErr: errors.New("a"), dbErr: errors.New("b")}}
		err := m.Close()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
	})
}

func TestNewMigrator_BadURL(t *testing.T) {
	m, err := NewMigrator("bogus://nowhere/identity")
	require.Error(t, err)
	assert.Nil(t, m)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}
