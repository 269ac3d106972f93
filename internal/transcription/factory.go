package transcription

import (
	"fmt"
	"log/slog"

	"autosub/internal/config"
)

// NewFromConfig builds the configured backend wrapped in a Service.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	var backend Transcriber
	switch cfg.Transcription.Backend {
	case config.BackendWhisperX:
		backend = NewWhisperX(WhisperXConfig{
			UVX:         cfg.Binaries.UVX,
			CUDAEnabled: cfg.Transcription.WhisperXCUDAEnabled,
			VADMethod:   cfg.Transcription.WhisperXVADMethod,
			HFToken:     cfg.Transcription.WhisperXHFToken,
		}, logger)
	case config.BackendOpenAI:
		backend = NewOpenAI(OpenAIConfig{
			APIKey:  cfg.Transcription.OpenAIAPIKey,
			BaseURL: cfg.Transcription.OpenAIBaseURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Transcription.Backend)
	}
	return NewService(backend, NewLinguaDetector(), logger), nil
}

// OptionsFromConfig returns the per-file options implied by cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:    cfg.Transcription.Model,
		Task:     cfg.Transcription.Task,
		Language: cfg.Transcription.Language,
	}
}
