package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level schedbot configuration, corresponding to .schedbot.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	Port     int    `yaml:"port" koanf:"port"`
	Timezone string `yaml:"timezone" koanf:"timezone"`

	// DBPath is the SQLite path for the transcript/event log. The default
	// ":memory:" keeps everything process-local; point it at a file to keep
	// an audit trail across restarts.
	DBPath string `yaml:"db_path" koanf:"db_path"`

	// HistoryLimit caps the number of conversation entries retained per
	// session. Older entries are dropped as new turns arrive.
	HistoryLimit int `yaml:"history_limit" koanf:"history_limit"`

	Calendar CalendarConfig `yaml:"calendar" koanf:"calendar"`
	Voice    VoiceConfig    `yaml:"voice" koanf:"voice"`
}

// CalendarConfig holds availability-search settings.
type CalendarConfig struct {
	WorkingHoursStart int   `yaml:"working_hours_start" koanf:"working_hours_start"`
	WorkingHoursEnd   int   `yaml:"working_hours_end" koanf:"working_hours_end"`
	WorkingDays       []int `yaml:"working_days" koanf:"working_days"` // 0=Monday .. 6=Sunday
	SlotGranularity   int   `yaml:"slot_granularity" koanf:"slot_granularity"` // minutes between candidate slots
}

// VoiceConfig holds text-to-speech settings.
type VoiceConfig struct {
	Enabled bool    `yaml:"enabled" koanf:"enabled"`
	VoiceID string  `yaml:"voice_id" koanf:"voice_id"`
	Speed   float64 `yaml:"speed" koanf:"speed"`
}
