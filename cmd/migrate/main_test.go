package main

import (
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitornegrao/minha-landing-page/migrations"
)

type fakeMigrator struct {
	upErr  error
	steps  []int
	forced []int
	ups    int
}

func (f *fakeMigrator) Up() error               { f.ups++; return f.upErr }
func (f *fakeMigrator) Steps(n int) error       { f.steps = append(f.steps, n); return nil }
func (f *fakeMigrator) Force(version int) error { f.forced = append(f.forced, version); return nil }

func TestRunDefaultsToUp(t *testing.T) {
	m := &fakeMigrator{upErr: migrate.ErrNoChange}

	require.NoError(t, run(m, nil))
	assert.Equal(t, 1, m.ups)
}

func TestRunDownAndForce(t *testing.T) {
	m := &fakeMigrator{}

	require.NoError(t, run(m, []string{"down", "2"}))
	require.NoError(t, run(m, []string{"force", "1"}))

	assert.Equal(t, []int{-2}, m.steps)
	assert.Equal(t, []int{1}, m.forced)
}

func TestRunRejectsBadArgs(t *testing.T) {
	m := &fakeMigrator{}

	assert.Error(t, run(m, []string{"down"}))
	assert.Error(t, run(m, []string{"force", "x"}))
	assert.Error(t, run(m, []string{"sideways"}))
	assert.NoError(t, run(m, []string{"version"}))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, 3, ups)
	assert.Equal(t, ups, downs)
}
