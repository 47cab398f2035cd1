// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseiden/backoffice/pkg/errutil"
)

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("invalid://url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

func TestNewMigrator_PostgresqlSchemeIsRecognized(t *testing.T) {
	_, err := NewMigrator("postgresql://localhost:1/poseiden?connect_timeout=1")
	require.Error(t, err, "no server is listening")
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
	assert.NotContains(t, err.Error(), "unknown driver")
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/poseiden", "pgx5://u:p@db:5432/poseiden"},
		{"postgresql://u:p@db/poseiden?sslmode=disable", "pgx5://u:p@db/poseiden?sslmode=disable"},
		{"pgx5://db/poseiden", "pgx5://db/poseiden"},
		{"badscheme://db", "badscheme://db"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migrateURL(tt.in))
		})
	}
}

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	stepsErr       error
	versionVal     uint
	versionErr     error
	dirty          bool
	forceErr       error
	closeSourceErr error
	closeDbErr     error
	forced         int
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Steps(_ int) error            { return m.stepsErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDbErr }
func (m *mockMigrate) Force(v int) error {
	m.forced = v
	return m.forceErr
}

func TestMigrator_Operations(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		mock     *mockMigrate
		run      func(*Migrator) error
		wantCode string
	}{
		{"up ok", &mockMigrate{}, (*Migrator).Up, ""},
		{"up no change", &mockMigrate{upErr: migrate.ErrNoChange}, (*Migrator).Up, ""},
		{"up error", &mockMigrate{upErr: boom}, (*Migrator).Up, "MIGRATION_UP_FAILED"},
		{"down ok", &mockMigrate{}, (*Migrator).Down, ""},
		{"down no change", &mockMigrate{downErr: migrate.ErrNoChange}, (*Migrator).Down, ""},
		{"down error", &mockMigrate{downErr: boom}, (*Migrator).Down, "MIGRATION_DOWN_FAILED"},
		{"steps ok", &mockMigrate{}, func(m *Migrator) error { return m.Steps(1) }, ""},
		{"steps no change", &mockMigrate{stepsErr: migrate.ErrNoChange}, func(m *Migrator) error { return m.Steps(-1) }, ""},
		{"steps error", &mockMigrate{stepsErr: boom}, func(m *Migrator) error { return m.Steps(2) }, "MIGRATION_STEPS_FAILED"},
		{"force ok", &mockMigrate{}, func(m *Migrator) error { return m.Force(2) }, ""},
		{"force error", &mockMigrate{forceErr: boom}, func(m *Migrator) error { return m.Force(2) }, "MIGRATION_FORCE_FAILED"},
		{"force negative", &mockMigrate{}, func(m *Migrator) error { return m.Force(-1) }, "INVALID_VERSION"},
		{"close ok", &mockMigrate{}, (*Migrator).Close, ""},
		{"close source error", &mockMigrate{closeSourceErr: boom}, (*Migrator).Close, "MIGRATION_CLOSE_FAILED"},
		{"close database error", &mockMigrate{closeDbErr: boom}, (*Migrator).Close, "MIGRATION_CLOSE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&Migrator{m: tt.mock})
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestMigrator_Force_NegativeVersionDoesNotReachDriver(t *testing.T) {
	mock := &mockMigrate{forced: -99}
	err := (&Migrator{m: mock}).Force(-1)
	require.Error(t, err)
	assert.Equal(t, -99, mock.forced)
}

func TestMigrator_Close_BothErrors(t *testing.T) {
	m := &Migrator{m: &mockMigrate{
		closeSourceErr: errors.New("source gone"),
		closeDbErr:     errors.New("db gone"),
	}}
	err := m.Close()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
	errutil.AssertErrorContext(t, err, "component", "both")
	assert.Contains(t, err.Error(), "source gone")
	assert.Contains(t, err.Error(), "db gone")
}

func TestMigrator_Version(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 2}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), v)
		assert.False(t, dirty)
	})

	t.Run("dirty", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 3, dirty: true}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), v)
		assert.True(t, dirty)
	})

	t.Run("nothing applied", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), v)
		assert.False(t, dirty)
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("db down")}}).Version()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_PendingAndApplied(t *testing.T) {
	tests := []struct {
		current     uint
		wantPending []uint
		wantApplied []uint
	}{
		{0, []uint{1, 2, 3, 4}, nil},
		{1, []uint{2, 3, 4}, []uint{1}},
		{4, nil, []uint{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("at_%d", tt.current), func(t *testing.T) {
			m := &Migrator{m: &mockMigrate{versionVal: tt.current}}

			pending, err := m.PendingMigrations()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPending, pending)

			applied, err := m.AppliedMigrations()
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
		})
	}
}

func TestMigrator_PendingAndApplied_VersionError(t *testing.T) {
	m := &Migrator{m: &mockMigrate{versionErr: errors.New("connection refused")}}

	_, err := m.PendingMigrations()
	require.Error(t, err)
	errutil.AssertErrorContext(t, err, "operation", "get pending migrations")

	_, err = m.AppliedMigrations()
	require.Error(t, err)
	errutil.AssertErrorContext(t, err, "operation", "get applied migrations")
}

func TestMigrationName(t *testing.T) {
	tests := []struct {
		version  uint
		expected string
	}{
		{1, "000001_users"},
		{2, "000002_sessions"},
		{3, "000003_records"},
		{4, "000004_session_user"},
		{999, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("version_%d", tt.version), func(t *testing.T) {
			name, err := MigrationName(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestAllMigrationVersions_ReturnsCopy(t *testing.T) {
	versions1, err := allMigrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions1)

	original := versions1[0]
	versions1[0] = 99999

	versions2, err := allMigrationVersions()
	require.NoError(t, err)
	assert.Equal(t, original, versions2[0], "mutation should not affect cache")
}
