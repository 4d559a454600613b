package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timetable.yaml")
		data := "data_dir: /var/lib/classtable\nstore: sqlite\nyear: 2019\ntimezone: Asia/Singapore\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/classtable", cfg.DataDir)
		assert.Equal(t, "sqlite", cfg.Store)
		assert.Equal(t, 2019, cfg.Year)
		assert.Equal(t, "Asia/Singapore", cfg.Timezone)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("missing store defaults to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timetable.yaml")
		require.NoError(t, os.WriteFile(path, []byte("year: 2019\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "file", cfg.Store)
	})

	t.Run("unknown store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timetable.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: sqllite\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown store "sqllite"`)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timetable.yaml")
		require.NoError(t, os.WriteFile(path, []byte("year: [1"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TIMETABLE_DATA_DIR": "/tmp/tt",
		"TIMETABLE_STORE":    "sqlite",
		"TIMETABLE_YEAR":     "2020",
		"TIMETABLE_TIMEZONE": "UTC",
		"LOG_LEVEL":          "debug",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, &Config{DataDir: "/tmp/tt", Store: "sqlite", Year: 2020, Timezone: "UTC", LogLevel: "debug"}, cfg)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	bad := DefaultConfig()
	assert.Error(t, bad.ApplyEnv(func(k string) string {
		if k == "TIMETABLE_YEAR" {
			return "next"
		}
		return ""
	}))

	typo := DefaultConfig()
	assert.Error(t, typo.ApplyEnv(func(k string) string {
		if k == "TIMETABLE_STORE" {
			return "sqllite"
		}
		return ""
	}))
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
