package transcription

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"autosub/internal/config"
	"autosub/internal/language"
	"autosub/internal/logging"
	"autosub/internal/services"
	"autosub/internal/subtitles"
)

// audioAPI is the subset of the go-openai client used for speech.
type audioAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateTranslation(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAIConfig configures the hosted Whisper backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAI transcribes audio with the hosted Whisper API.
type OpenAI struct {
	client audioAPI
	logger *slog.Logger
}

// NewOpenAI constructs the OpenAI backend.
func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	return newOpenAIWithClient(openai.NewClientWithConfig(clientCfg), logger)
}

func newOpenAIWithClient(client audioAPI, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OpenAI{client: client, logger: logging.NewComponentLogger(logger, "openai-whisper")}
}

// Transcribe uploads audioPath and converts the verbose_json segments. The
// hosted API serves a single model, so opts.Model is only logged.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "transcription", "openai", "audio path required", nil)
	}
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	o.logger.Debug("calling whisper api",
		logging.String("audio", audioPath),
		logging.String("requested_model", opts.Model),
		logging.String("api_model", req.Model),
		logging.String("task", opts.Task),
	)

	var (
		resp openai.AudioResponse
		err  error
	)
	if opts.Task == config.TaskTranslate {
		resp, err = o.client.CreateTranslation(ctx, req)
	} else {
		if lang := language.Normalize(opts.Language); lang != "" && lang != language.Auto {
			req.Language = lang
		}
		resp, err = o.client.CreateTranscription(ctx, req)
	}
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcription", "openai", "whisper api request failed", err)
	}

	result := Result{Language: languageFromName(resp.Language)}
	for _, seg := range resp.Segments {
		if seg.Start < 0 || seg.End < 0 {
			continue
		}
		result.Segments = append(result.Segments, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	if len(result.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		result.Segments = []subtitles.Segment{{Start: 0, End: resp.Duration, Text: resp.Text}}
	}
	return result, nil
}
