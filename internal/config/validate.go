package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"autosub/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if within(c.Paths.WorkDir, c.Paths.OutputDir) {
		return errors.New("paths.output_dir must differ from and not be inside paths.work_dir; the work directory is wiped on every run")
	}
	return nil
}

// within reports whether path is dir or lies under it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	if !oneOf(t.Backend, backends) {
		return fmt.Errorf("transcription.backend must be one of %s", strings.Join(backends, ", "))
	}
	if !oneOf(t.Model, WhisperModels) {
		return fmt.Errorf("transcription.model %q is not a known whisper model (%s)", t.Model, strings.Join(WhisperModels, ", "))
	}
	if !oneOf(t.Task, tasks) {
		return fmt.Errorf("transcription.task must be one of %s", strings.Join(tasks, ", "))
	}
	if !language.IsSource(t.Language) {
		return fmt.Errorf("transcription.language %q is not supported", t.Language)
	}
	if t.Backend == BackendOpenAI && t.OpenAIAPIKey == "" {
		return errors.New("transcription.openai_api_key is required for the openai backend. Set OPENAI_API_KEY or edit the config file")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	t := c.Translation
	if !language.IsSupported(t.TargetLanguage) {
		return fmt.Errorf("translation.target_language %q is not supported", t.TargetLanguage)
	}
	if !c.TranslationEnabled() {
		return nil
	}
	if !oneOf(t.Model, TranslationModels) {
		return fmt.Errorf("translation.model %q is not supported (%s)", t.Model, strings.Join(TranslationModels, ", "))
	}
	if !oneOf(t.Provider, providers) {
		return fmt.Errorf("translation.provider must be one of %s", strings.Join(providers, ", "))
	}
	switch t.Provider {
	case ProviderGemini:
		if t.GeminiAPIKey == "" {
			return errors.New("translation.gemini_api_key is required when translating with gemini. Set GEMINI_API_KEY or edit the config file")
		}
	case ProviderOpenAI:
		if t.OpenAIAPIKey == "" {
			return errors.New("translation.openai_api_key is required when translating with openai. Set OPENAI_API_KEY or edit the config file")
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if !oneOf(c.Pipeline.OnFailure, failurePolicies) {
		return fmt.Errorf("pipeline.on_failure must be one of %s", strings.Join(failurePolicies, ", "))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
