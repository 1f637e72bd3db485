package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SCHEDBOT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SCHEDBOT_PORT -> port,
	// SCHEDBOT_CALENDAR_SLOT_GRANULARITY -> calendar.slot_granularity, etc.
	if err := k.Load(env.Provider("SCHEDBOT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "SCHEDBOT_"))
		for _, section := range []string{"calendar_", "voice_"} {
			if strings.HasPrefix(key, section) {
				return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
			}
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive")
	}

	cal := c.Calendar
	if cal.WorkingHoursStart < 0 || cal.WorkingHoursStart > 23 {
		return fmt.Errorf("working_hours_start must be between 0 and 23")
	}
	if cal.WorkingHoursEnd <= cal.WorkingHoursStart || cal.WorkingHoursEnd > 24 {
		return fmt.Errorf("working_hours_end must be after working_hours_start and at most 24")
	}
	if len(cal.WorkingDays) == 0 {
		return fmt.Errorf("working_days must not be empty")
	}
	for _, d := range cal.WorkingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("working_days entries must be between 0 (Monday) and 6 (Sunday)")
		}
	}
	if cal.SlotGranularity <= 0 {
		return fmt.Errorf("slot_granularity must be positive")
	}

	if c.Voice.Speed <= 0 {
		return fmt.Errorf("voice speed must be positive")
	}

	return nil
}

// Location returns the configured timezone location. Validate must have
// passed for this to be safe; invalid names fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
