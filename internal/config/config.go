package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvBackendURL overrides the configured backend base URL. The backend
// address is deliberately environment-resolved rather than baked in as a
// literal.
const EnvBackendURL = "JETCAL_BACKEND_URL"

// ReminderConfig describes one recurring wellness reminder (hydration,
// movement, ...). Occurrences are expanded from the RRULE within the
// configured horizon and merged into the notification batch.
type ReminderConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Title is the notification title shown to the user.
	Title string `yaml:"title" json:"title"`
	// Description becomes the notification body.
	Description string `yaml:"description" json:"description"`
	// RRule is an RFC 5545 recurrence rule (e.g. "FREQ=HOURLY;INTERVAL=2").
	RRule string `yaml:"rrule" json:"rrule"`
	// DurationMinutes is the nominal length of each occurrence.
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`
}

// Config is the top-level application configuration.
type Config struct {
	// BackendURL is the travel-wellness backend base URL. The
	// JETCAL_BACKEND_URL environment variable takes precedence.
	BackendURL string `yaml:"backend_url" json:"backend_url"`

	// Listen is the HTTP listen address for the daemon status API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for rendering local times
	// (e.g. "Asia/Seoul"). Defaults to the system local zone when empty.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// driving the periodic sync cycle in daemon mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is the number of future days reminders are expanded for.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// LeadMinutes is how many minutes before an event its reminder fires.
	LeadMinutes int `yaml:"lead_minutes" json:"lead_minutes"`

	// NotifyDBPath is the SQLite path of the local notification store.
	NotifyDBPath string `yaml:"notify_db" json:"notify_db"`

	// GeminiModel selects the model used by the local advisor. The API
	// key comes from the GEMINI_API_KEY environment variable only.
	GeminiModel string `yaml:"gemini_model" json:"gemini_model"`

	// LogLevel / LogFormat configure the logger ("info"/"json" defaults).
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Reminders is the list of recurring wellness reminders.
	Reminders []ReminderConfig `yaml:"reminders" json:"reminders"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:   "http://127.0.0.1:5000",
		Listen:       "127.0.0.1:8091",
		Timezone:     "",
		RefreshCron:  "*/15 * * * *",
		HorizonDays:  7,
		LeadMinutes:  5,
		NotifyDBPath: defaultNotifyDBPath(),
		GeminiModel:  "gemini-2.0-flash-lite",
		LogLevel:     "info",
		LogFormat:    "json",
		Reminders:    []ReminderConfig{},
	}
}

func defaultNotifyDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./var/jetcal.db"
	}
	return filepath.Join(home, ".jetcal", "jetcal.db")
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly. Environment overrides
// are applied last.
func (c *Config) Normalize() {
	if c.BackendURL == "" {
		c.BackendURL = "http://127.0.0.1:5000"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8091"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 7
	}
	if c.LeadMinutes <= 0 {
		c.LeadMinutes = 5
	}
	if c.NotifyDBPath == "" {
		c.NotifyDBPath = defaultNotifyDBPath()
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash-lite"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.Reminders == nil {
		c.Reminders = []ReminderConfig{}
	}

	if v := os.Getenv(EnvBackendURL); v != "" {
		c.BackendURL = v
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there
//     (0600 perms, parent directory created) and returned.
//   - Otherwise the YAML is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".jetcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Location resolves the configured timezone, falling back to the system
// local zone on empty or invalid values.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
