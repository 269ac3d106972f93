package transcription

import (
	"context"
	"log/slog"
	"strings"

	"autosub/internal/config"
	"autosub/internal/language"
	"autosub/internal/logging"
	"autosub/internal/subtitles"
)

// Options controls a single transcription call.
type Options struct {
	Model    string
	Task     string // config.TaskTranscribe or config.TaskTranslate
	Language string // language.Auto or a code from language.Codes
}

// Result is the ordered transcript of one audio file.
type Result struct {
	Segments []subtitles.Segment
	Language string
}

// Text joins the segment texts with spaces.
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Transcriber produces segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
}

// Detector guesses the language of a piece of text, returning a code from
// language.Codes or "" when unsure.
type Detector interface {
	Detect(text string) string
}

// Service applies model and language rules around a backend.
type Service struct {
	backend  Transcriber
	detector Detector
	logger   *slog.Logger
}

// NewService wraps backend. A nil detector disables the language fallback.
func NewService(backend Transcriber, detector Detector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		backend:  backend,
		detector: detector,
		logger:   logging.NewComponentLogger(logger, "transcription"),
	}
}

// PrepareOptions normalizes opts. English-only models force the language to
// "en"; a warning is logged when that overrides an explicit choice.
func PrepareOptions(opts Options, logger *slog.Logger) Options {
	opts.Model = strings.TrimSpace(opts.Model)
	opts.Task = strings.ToLower(strings.TrimSpace(opts.Task))
	if opts.Task == "" {
		opts.Task = config.TaskTranscribe
	}
	opts.Language = language.Normalize(opts.Language)
	if opts.Language == "" {
		opts.Language = language.Auto
	}
	if config.IsEnglishOnlyModel(opts.Model) && opts.Language != "en" {
		if opts.Language != language.Auto {
			logging.WarnWithContext(logger, "english-only model selected; forcing language to en", "language_forced",
				logging.String("model", opts.Model),
				logging.String("requested_language", opts.Language),
				logging.String(logging.FieldErrorHint, "use a multilingual model to transcribe other languages"),
				logging.String(logging.FieldImpact, "transcript language is English"),
			)
		}
		opts.Language = "en"
	}
	return opts
}

// Transcribe runs the backend and resolves the transcript language. The
// returned Result.Language is "en" for translate tasks, the requested code
// when one was given, and otherwise whatever the backend or detector found.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	opts = PrepareOptions(opts, s.logger)
	s.logger.Debug("transcribing",
		logging.String("audio", audioPath),
		logging.String("model", opts.Model),
		logging.String("task", opts.Task),
		logging.String("language", opts.Language),
	)
	result, err := s.backend.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return Result{}, err
	}

	switch {
	case opts.Task == config.TaskTranslate:
		result.Language = "en"
	case opts.Language != language.Auto:
		result.Language = opts.Language
	default:
		result.Language = language.FromTag(result.Language)
		if result.Language == "" && s.detector != nil {
			result.Language = s.detector.Detect(result.Text())
			s.logger.Debug("language detected from transcript text",
				logging.String("language", result.Language),
				logging.String(logging.FieldEventType, "language_detected"),
			)
		}
	}
	s.logger.Info("transcription complete",
		logging.Int("segments", len(result.Segments)),
		logging.String("language", result.Language),
		logging.String(logging.FieldEventType, "transcription_complete"),
	)
	return result, nil
}
