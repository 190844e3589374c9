package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/christopherklint97/studyr/internal/planner"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"STUDYR_DATA_FILE", "STUDYR_HISTORY_DB", "OPENAI_API_KEY", "STUDYR_ADVISOR_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Defaults.SessionMinutes != 50 || cfg.Planner.MinTasks != planner.DefaultMinTasks {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if got, want := cfg.Storage.DataFile, filepath.Join(dir, "studyr.json"); got != want {
		t.Errorf("data file = %q, want %q", got, want)
	}
	if got, want := cfg.Storage.HistoryDB, filepath.Join(dir, "history.db"); got != want {
		t.Errorf("history db = %q, want %q", got, want)
	}
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[planner]
priority_weights = "distribution"

[defaults]
daily_hours = 3.5
preferred_times = ["Morning", "Weekend"]

[advisor]
provider = "openai"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Defaults.DailyHours != 3.5 {
		t.Errorf("daily hours = %v, want 3.5", cfg.Defaults.DailyHours)
	}
	if !reflect.DeepEqual(cfg.Defaults.PreferredTimes, []string{"Morning", "Weekend"}) {
		t.Errorf("preferred times = %v", cfg.Defaults.PreferredTimes)
	}
	if cfg.Defaults.BreakMinutes != 15 {
		t.Errorf("unset key lost its default: %d", cfg.Defaults.BreakMinutes)
	}
	m, err := cfg.Multipliers()
	if err != nil || m != planner.DistributionMultipliers {
		t.Errorf("got %+v, %v; want distribution table", m, err)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYR_DATA_FILE", "/tmp/other.json")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Storage.DataFile != "/tmp/other.json" {
		t.Errorf("data file = %q", cfg.Storage.DataFile)
	}
	if cfg.Advisor.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Advisor.APIKey)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[planner\nmin_tasks = "), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed TOML accepted")
	}
}

func TestMultipliers(t *testing.T) {
	cfg := DefaultConfig()
	if m, err := cfg.Multipliers(); err != nil || m != planner.ExamMultipliers {
		t.Errorf("default: got %+v, %v", m, err)
	}

	cfg.Planner.Multipliers = &planner.Multipliers{High: 2, Medium: 1, Low: 0.25}
	if m, err := cfg.Multipliers(); err != nil || m.High != 2 {
		t.Errorf("explicit table: got %+v, %v", m, err)
	}

	cfg.Planner.Multipliers = &planner.Multipliers{High: 2}
	if _, err := cfg.Multipliers(); err == nil {
		t.Error("zero multiplier accepted")
	}

	cfg.Planner.Multipliers = nil
	cfg.Planner.PriorityWeights = "steep"
	if _, err := cfg.Multipliers(); err == nil {
		t.Error("unknown weights name accepted")
	}
}

func TestSet(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[custom]\nkeep = \"me\"\n"), 0644)

	steps := [][2]string{
		{"defaults.daily_hours", "4"},
		{"defaults.preferred_times", "Morning, Evening"},
		{"reminders.enabled", "false"},
		{"planner.min_tasks", "10"},
		{"advisor.provider", "openai"},
	}
	for _, s := range steps {
		if err := Set(path, s[0], s[1]); err != nil {
			t.Fatalf("Set(%s): %v", s[0], err)
		}
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Defaults.DailyHours != 4 || cfg.Planner.MinTasks != 10 || cfg.Reminders.Enabled || cfg.Advisor.Provider != "openai" {
		t.Errorf("values not persisted: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Defaults.PreferredTimes, []string{"Morning", "Evening"}) {
		t.Errorf("preferred times = %v", cfg.Defaults.PreferredTimes)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "keep") {
		t.Error("unrelated section dropped")
	}
}

func TestSet_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	tests := []struct{ key, value string }{
		{"daily_hours", "3"},
		{"nosuch.key", "1"},
		{"defaults.nosuch", "1"},
		{"planner.min_tasks", "many"},
		{"reminders.enabled", "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			if err := Set(path, tt.key, tt.value); err == nil {
				t.Error("invalid setting accepted")
			}
		})
	}
}
