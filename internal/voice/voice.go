// Package voice holds the speech collaborators used when a session runs
// over the voice modality.
package voice

import "context"

// Transcriber converts audio to text. An empty transcript with a nil
// error means "nothing intelligible"; callers respond with a generic
// clarification without touching dialogue state.
type Transcriber interface {
	SpeechToText(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts reply text to audio.
type Synthesizer interface {
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
}

// Service bundles both directions of the speech boundary.
type Service interface {
	Transcriber
	Synthesizer
}
