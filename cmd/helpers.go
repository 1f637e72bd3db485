package cmd

import (
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/karimnasser/schedbot/internal/calendar"
	"github.com/karimnasser/schedbot/internal/config"
	"github.com/karimnasser/schedbot/internal/conversation"
	"github.com/karimnasser/schedbot/internal/db"
	"github.com/karimnasser/schedbot/internal/llm"
	"github.com/karimnasser/schedbot/internal/nlu"
	"github.com/karimnasser/schedbot/internal/session"
	"github.com/karimnasser/schedbot/internal/timeparse"
	"github.com/karimnasser/schedbot/internal/voice"
)

// llmRequestsPerMinute bounds upstream quota usage across all sessions.
// Each turn costs two calls (reply + extraction).
const llmRequestsPerMinute = 60

// assistant bundles everything a front end (HTTP server or terminal
// chat) needs to run scheduling conversations.
type assistant struct {
	cfg      *config.Config
	database *db.DB
	provider llm.Provider
	engine   *conversation.Engine
	gateway  *conversation.Gateway
	registry *session.Registry
	voice    voice.Service // nil when disabled
}

// buildAssistant wires the full stack from a loaded config.
func buildAssistant(cfg *config.Config) (*assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	provider = llm.NewRateLimitedProvider(provider, llmRequestsPerMinute)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	calendarSvc := calendar.NewLocalService(database)
	hours := calendar.WorkingHoursFromConfig(
		cfg.Calendar.WorkingHoursStart,
		cfg.Calendar.WorkingHoursEnd,
		cfg.Calendar.WorkingDays,
		cfg.Calendar.SlotGranularity,
	)

	loc := cfg.Location()
	resolver := timeparse.NewResolver(loc, timeparse.NewDateparseParser(loc))
	understander := nlu.NewLLMUnderstander(provider, cfg.Model)

	engine := conversation.NewEngine(understander, calendarSvc, resolver, hours, database)
	registry := session.NewRegistry(cfg.HistoryLimit)

	voiceSvc, err := buildVoiceService(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &assistant{
		cfg:      cfg,
		database: database,
		provider: provider,
		engine:   engine,
		gateway:  conversation.NewGateway(engine, registry, voiceSvc),
		registry: registry,
		voice:    voiceSvc,
	}, nil
}

// buildVoiceService creates the speech collaborator when voice is
// enabled. Voice always goes through the OpenAI audio APIs, regardless
// of which provider handles text.
func buildVoiceService(cfg *config.Config) (voice.Service, error) {
	if !cfg.Voice.Enabled {
		return nil, nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("voice is enabled but OPENAI_API_KEY is not set")
	}
	return voice.NewOpenAIService(openai.NewClient(apiKey), cfg.Voice), nil
}

func (a *assistant) Close() error {
	return a.database.Close()
}
