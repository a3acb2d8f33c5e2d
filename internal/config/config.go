package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Storage       StorageConfig  `toml:"storage"`
	Schedule      ScheduleConfig `toml:"schedule"`
	Notifications NotifyConfig   `toml:"notifications"`
	Calendar      CalendarConfig `toml:"calendar"`
}

type StorageConfig struct {
	Path string `toml:"path"` // sqlite file; empty means ~/.config/daylog/daylog.db
}

type ScheduleConfig struct {
	WorkStart        string `toml:"work_start"`
	WorkEnd          string `toml:"work_end"`
	WorkDays         []int  `toml:"work_days"`
	CheckMinutes     int    `toml:"check_minutes"`
	LongTimerMinutes int    `toml:"long_timer_minutes"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type CalendarConfig struct {
	Source          string `toml:"source"` // fetch-script JSON file, .ics file, or "-" for stdin
	DefaultTaskcode string `toml:"default_taskcode"`
	ImportAs        string `toml:"import_as"` // "event" or "todo"
}

func DefaultConfig() Config {
	return Config{
		Schedule: ScheduleConfig{
			WorkStart:        "09:00",
			WorkEnd:          "18:00",
			WorkDays:         []int{1, 2, 3, 4, 5},
			CheckMinutes:     30,
			LongTimerMinutes: 180,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
		Calendar: CalendarConfig{
			ImportAs: "event",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "daylog"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DBPath resolves the sqlite path, defaulting into the config directory.
func (c *Config) DBPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daylog.db"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// Validate rejects settings the scheduler and importer cannot use.
func (c *Config) Validate() error {
	if _, _, ok := ParseClock(c.Schedule.WorkStart); !ok {
		return fmt.Errorf("schedule.work_start: invalid time %q (expected HH:MM)", c.Schedule.WorkStart)
	}
	if _, _, ok := ParseClock(c.Schedule.WorkEnd); !ok {
		return fmt.Errorf("schedule.work_end: invalid time %q (expected HH:MM)", c.Schedule.WorkEnd)
	}
	for _, d := range c.Schedule.WorkDays {
		if d < 1 || d > 7 {
			return fmt.Errorf("schedule.work_days: %d is not a weekday (1=Monday .. 7=Sunday)", d)
		}
	}
	if c.Schedule.CheckMinutes <= 0 {
		return fmt.Errorf("schedule.check_minutes must be positive")
	}
	switch c.Calendar.ImportAs {
	case "event", "todo":
	default:
		return fmt.Errorf("calendar.import_as: invalid value %q (expected \"event\" or \"todo\")", c.Calendar.ImportAs)
	}
	return nil
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	hour, errH := strconv.Atoi(s[:2])
	minute, errM := strconv.Atoi(s[3:])
	if errH != nil || errM != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DAYLOG_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DAYLOG_CALENDAR_SOURCE"); v != "" {
		cfg.Calendar.Source = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault writes the default config to path as TOML.
func WriteDefault(path string) error {
	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// SaveCalendarSource persists the calendar source using a read-modify-write
// approach to preserve other settings.
func SaveCalendarSource(source string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	cal, ok := cfg["calendar"].(map[string]any)
	if !ok {
		cal = make(map[string]any)
	}
	cal["source"] = source
	cfg["calendar"] = cal

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
