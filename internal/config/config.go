package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/christopherklint97/studyr/internal/planner"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Storage   StorageConfig  `toml:"storage"`
	Planner   PlannerConfig  `toml:"planner"`
	Defaults  DefaultsConfig `toml:"defaults"`
	Reminders ReminderConfig `toml:"reminders"`
	Advisor   AdvisorConfig  `toml:"advisor"`
	Calendar  CalendarConfig `toml:"calendar"`
}

type StorageConfig struct {
	DataFile  string `toml:"data_file"`
	HistoryDB string `toml:"history_db"`
}

type PlannerConfig struct {
	PriorityWeights string               `toml:"priority_weights"` // "exam" or "distribution"
	Multipliers     *planner.Multipliers `toml:"multipliers,omitempty"`
	MinTasks        int                  `toml:"min_tasks"`
}

// DefaultsConfig fills in whatever a plan request leaves out.
type DefaultsConfig struct {
	DailyHours      float64  `toml:"daily_hours"`
	PreferredTimes  []string `toml:"preferred_times"`
	LearningStyle   string   `toml:"learning_style"`
	WorkStyle       string   `toml:"work_style"`
	StudyStart      string   `toml:"study_start"`
	StudyEnd        string   `toml:"study_end"`
	BreakMinutes    int      `toml:"break_minutes"`
	SessionMinutes  int      `toml:"session_minutes"`
	QuickStudyDays  int      `toml:"quick_study_days"`
	BreakActivities []string `toml:"break_activities"`
}

type ReminderConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	LeadMinutes     int  `toml:"lead_minutes"`
}

type AdvisorConfig struct {
	Provider string `toml:"provider"` // "static" or "openai"
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type CalendarConfig struct {
	Source string `toml:"source"` // ICS URL or file path used by "calendar import"
}

func DefaultConfig() Config {
	return Config{
		Planner: PlannerConfig{
			PriorityWeights: "exam",
			MinTasks:        planner.DefaultMinTasks,
		},
		Defaults: DefaultsConfig{
			DailyHours:      2,
			PreferredTimes:  []string{"Evening"},
			LearningStyle:   string(planner.StyleMixed),
			WorkStyle:       string(planner.WorkDeadlineDriven),
			StudyStart:      "08:00",
			StudyEnd:        "20:00",
			BreakMinutes:    15,
			SessionMinutes:  50,
			QuickStudyDays:  2,
			BreakActivities: []string{"Stretch", "Walk around", "Get a drink of water", "Quick meditation"},
		},
		Reminders: ReminderConfig{
			Enabled:         true,
			IntervalMinutes: 15,
			LeadMinutes:     15,
		},
		Advisor: AdvisorConfig{
			Provider: "static",
		},
	}
}

// Multipliers resolves the priority weighting table. An explicit
// [planner.multipliers] table wins over priority_weights.
func (c *Config) Multipliers() (planner.Multipliers, error) {
	if m := c.Planner.Multipliers; m != nil {
		if m.High <= 0 || m.Medium <= 0 || m.Low <= 0 {
			return planner.Multipliers{}, fmt.Errorf("planner.multipliers must all be positive")
		}
		return *m, nil
	}
	m, ok := planner.MultipliersByName(c.Planner.PriorityWeights)
	if !ok {
		return planner.Multipliers{}, fmt.Errorf("unknown planner.priority_weights %q (want \"exam\" or \"distribution\")", c.Planner.PriorityWeights)
	}
	return m, nil
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "studyr"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
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
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.resolvePaths(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYR_DATA_FILE"); v != "" {
		cfg.Storage.DataFile = v
	}
	if v := os.Getenv("STUDYR_HISTORY_DB"); v != "" {
		cfg.Storage.HistoryDB = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("STUDYR_ADVISOR_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
}

// resolvePaths puts unset storage files next to the config file and
// expands a leading "~/".
func (c *Config) resolvePaths(dir string) error {
	if c.Storage.DataFile == "" {
		c.Storage.DataFile = filepath.Join(dir, "studyr.json")
	}
	if c.Storage.HistoryDB == "" {
		c.Storage.HistoryDB = filepath.Join(dir, "history.db")
	}
	for _, p := range []*string{&c.Storage.DataFile, &c.Storage.HistoryDB} {
		if !strings.HasPrefix(*p, "~/") {
			continue
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		*p = filepath.Join(home, (*p)[2:])
	}
	return nil
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Set persists one "section.key" value to the config file at path using
// read-modify-write, so other settings and unknown keys survive. The value
// is stored as the TOML type the key already has in Config.
func Set(path, dotted, raw string) error {
	section, key, ok := strings.Cut(dotted, ".")
	if !ok || section == "" || key == "" {
		return fmt.Errorf("invalid key %q: want section.key", dotted)
	}

	value, err := coerce(section, key, raw)
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

	sec, ok := cfg[section].(map[string]any)
	if !ok {
		sec = make(map[string]any)
	}
	sec[key] = value
	cfg[section] = sec

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// coerce checks that section.key exists and converts raw to its type by
// decoding a one-line TOML document into a copy of the defaults.
func coerce(section, key, raw string) (any, error) {
	defaults, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshaling defaults: %w", err)
	}
	var tree map[string]any
	if err := toml.Unmarshal(defaults, &tree); err != nil {
		return nil, fmt.Errorf("parsing defaults: %w", err)
	}
	sec, ok := tree[section].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unknown config section %q", section)
	}
	current, ok := sec[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key %s.%s", section, key)
	}

	switch current.(type) {
	case string:
		return raw, nil
	case []any:
		var items []string
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	}

	var doc map[string]any
	if err := toml.Unmarshal([]byte("v = "+raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid value %q for %s.%s: %w", raw, section, key, err)
	}
	v := doc["v"]
	switch current.(type) {
	case int64:
		if _, ok := v.(int64); !ok {
			return nil, fmt.Errorf("%s.%s wants an integer", section, key)
		}
	case float64:
		switch n := v.(type) {
		case int64:
			v = float64(n)
		case float64:
		default:
			return nil, fmt.Errorf("%s.%s wants a number", section, key)
		}
	case bool:
		if _, ok := v.(bool); !ok {
			return nil, fmt.Errorf("%s.%s wants true or false", section, key)
		}
	}
	return v, nil
}
