package database

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "postgres", in: "postgres://u:p@db:5432/settings?sslmode=disable", want: "pgx5://u:p@db:5432/settings?sslmode=disable"},
		{name: "postgresql", in: "postgresql://u@db/settings", want: "pgx5://u@db/settings"},
		{name: "already pgx5", in: "pgx5://u@db/settings", want: "pgx5://u@db/settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MigrateURL(tt.in))
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups), "every migration needs a down file")

	first, err := fs.ReadFile(migrationsFS, "migrations/000001_kv.up.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(first), "index_settings_kv"))
}

type fakeMigrator struct {
	upErr, downErr, stepsErr error
	steps                    []int
	downCalled               bool
}

func (f *fakeMigrator) Up() error { return f.upErr }
func (f *fakeMigrator) Down() error {
	f.downCalled = true
	return f.downErr
}
func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return f.stepsErr
}
func (*fakeMigrator) Version() (uint, bool, error) { return 1, false, nil }
func (*fakeMigrator) Close() (error, error)        { return nil, nil }

func TestUpDown(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	require.NoError(t, Up(&fakeMigrator{upErr: migrate.ErrNoChange}))
	require.ErrorIs(t, Up(&fakeMigrator{upErr: boom}), boom)

	all := &fakeMigrator{}
	require.NoError(t, Down(all, 0))
	assert.True(t, all.downCalled)

	some := &fakeMigrator{}
	require.NoError(t, Down(some, 2))
	assert.Equal(t, []int{-2}, some.steps)

	require.NoError(t, Down(&fakeMigrator{stepsErr: migrate.ErrNoChange}, 1))
	require.ErrorIs(t, Down(&fakeMigrator{downErr: boom}, 0), boom)
}
