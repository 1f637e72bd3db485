package config

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o",
	ProviderOllama: "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenAI,
		Model:        "gpt-4o",
		Port:         8080,
		Timezone:     "UTC",
		DBPath:       ":memory:",
		HistoryLimit: 50,
		Calendar: CalendarConfig{
			WorkingHoursStart: 9,
			WorkingHoursEnd:   17,
			WorkingDays:       []int{0, 1, 2, 3, 4},
			SlotGranularity:   30,
		},
		Voice: VoiceConfig{
			Enabled: false,
			VoiceID: "alloy",
			Speed:   1.0,
		},
	}
}

// DefaultModel returns the default model for the given provider.
// Falls back to the OpenAI default for unknown providers.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
