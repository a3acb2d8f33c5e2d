package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	t.Setenv("DAYLOG_DB", "")
	t.Setenv("DAYLOG_CALENDAR_SOURCE", "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	t.Setenv("DAYLOG_DB", "")
	t.Setenv("DAYLOG_CALENDAR_SOURCE", "")
	path := writeConfig(t, `
[schedule]
work_start = "08:30"
work_days = [1, 2, 3]

[calendar]
source = "/tmp/events.json"
import_as = "todo"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "08:30", cfg.Schedule.WorkStart)
	assert.Equal(t, "18:00", cfg.Schedule.WorkEnd)
	assert.Equal(t, []int{1, 2, 3}, cfg.Schedule.WorkDays)
	assert.Equal(t, 30, cfg.Schedule.CheckMinutes)
	assert.Equal(t, "/tmp/events.json", cfg.Calendar.Source)
	assert.Equal(t, "todo", cfg.Calendar.ImportAs)
	assert.True(t, cfg.Notifications.Enabled)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("DAYLOG_DB", "/data/daylog.db")
	t.Setenv("DAYLOG_CALENDAR_SOURCE", "-")
	cfg, err := LoadFile(writeConfig(t, `[storage]
path = "/elsewhere.db"
`))
	require.NoError(t, err)
	assert.Equal(t, "/data/daylog.db", cfg.Storage.Path)
	assert.Equal(t, "-", cfg.Calendar.Source)

	path, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/daylog.db", path)
}

func TestLoadFile_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"work_start": "[schedule]\nwork_start = \"9am\"\n",
		"work_days":  "[schedule]\nwork_days = [0]\n",
		"import_as":  "[calendar]\nimport_as = \"both\"\n",
		"check":      "[schedule]\ncheck_minutes = 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadFile_MalformedTOML(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "[schedule\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestParseClock(t *testing.T) {
	h, m, ok := ParseClock("17:45")
	require.True(t, ok)
	assert.Equal(t, 17, h)
	assert.Equal(t, 45, m)

	for _, bad := range []string{"", "7:45", "24:00", "12:60", "ab:cd"} {
		_, _, ok := ParseClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	t.Setenv("DAYLOG_DB", "")
	t.Setenv("DAYLOG_CALENDAR_SOURCE", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}
