package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/karimnasser/schedbot/internal/config"
)

// OpenAIService implements Service with Whisper transcription and the
// OpenAI speech endpoint.
type OpenAIService struct {
	client *openai.Client
	cfg    config.VoiceConfig
}

// NewOpenAIService creates a voice service sharing an existing OpenAI client.
func NewOpenAIService(client *openai.Client, cfg config.VoiceConfig) *OpenAIService {
	return &OpenAIService{client: client, cfg: cfg}
}

func (s *OpenAIService) SpeechToText(ctx context.Context, audio []byte) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}
	return resp.Text, nil
}

func (s *OpenAIService) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	voice := openai.SpeechVoice(s.cfg.VoiceID)
	if voice == "" {
		voice = openai.VoiceAlloy
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: voice,
		Speed: s.cfg.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized audio: %w", err)
	}
	return audio, nil
}
