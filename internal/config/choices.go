package config

import (
	"slices"
	"strings"
)

// Transcription backends.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
)

// Transcription tasks.
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Translation providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Failure policies applied when a pipeline stage fails.
const (
	FailureContinue = "continue"
	FailureAbort    = "abort"
)

// WhisperModels lists the accepted speech model names.
var WhisperModels = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large-v1", "large-v2", "large-v3", "large",
	"large-v3-turbo", "turbo",
}

// TranslationModels lists the accepted translation model identifiers.
var TranslationModels = []string{
	"gemini-pro",
	"gemini",
	"gemini-1.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gpt-4o-mini",
	"gpt-4o",
}

var (
	backends        = []string{BackendWhisperX, BackendOpenAI}
	tasks           = []string{TaskTranscribe, TaskTranslate}
	providers       = []string{ProviderGemini, ProviderOpenAI}
	failurePolicies = []string{FailureContinue, FailureAbort}
)

// IsEnglishOnlyModel reports whether the model only handles English audio.
func IsEnglishOnlyModel(model string) bool {
	return strings.HasSuffix(model, ".en")
}

// ProviderForModel infers the translation provider from a model identifier.
func ProviderForModel(model string) string {
	if strings.HasPrefix(model, "gpt-") {
		return ProviderOpenAI
	}
	return ProviderGemini
}

func oneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
