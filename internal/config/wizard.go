package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result
// to path, and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to schedbot! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = DefaultModel(cfg.Provider)

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: cfg.Model,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	tzPrompt := promptui.Prompt{
		Label:   "Timezone (IANA name)",
		Default: cfg.Timezone,
	}
	if cfg.Timezone, err = tzPrompt.Run(); err != nil {
		return nil, fmt.Errorf("timezone selection: %w", err)
	}

	voicePrompt := promptui.Select{
		Label: "Enable voice (OpenAI speech APIs)",
		Items: []string{"no", "yes"},
	}
	_, voiceStr, err := voicePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("voice selection: %w", err)
	}
	cfg.Voice.Enabled = voiceStr == "yes"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", path)
	if cfg.Provider == ProviderOpenAI || cfg.Voice.Enabled {
		fmt.Printf("Remember to set %s before starting the server.\n", APIKeyEnvVar(ProviderOpenAI))
	}

	return cfg, nil
}
