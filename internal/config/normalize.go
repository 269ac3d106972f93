package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeTranslation()
	c.normalizePipeline()
	c.normalizeBinaries()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Backend = lowerOr(t.Backend, defaultBackend)
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultModel
	}
	t.Task = lowerOr(t.Task, defaultTask)
	t.Language = lowerOr(t.Language, defaultLanguage)
	t.WhisperXVADMethod = lowerOr(t.WhisperXVADMethod, defaultVADMethod)
	t.WhisperXHFToken = strings.TrimSpace(t.WhisperXHFToken)
	if t.WhisperXHFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			t.WhisperXHFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.WhisperXHFToken = strings.TrimSpace(value)
		}
	}
	t.OpenAIAPIKey = envOr(t.OpenAIAPIKey, "OPENAI_API_KEY")
	t.OpenAIBaseURL = envOr(t.OpenAIBaseURL, "OPENAI_BASE_URL")
	if t.OpenAIBaseURL == "" {
		t.OpenAIBaseURL = defaultOpenAIBaseURL
	}
}

func (c *Config) normalizeTranslation() {
	t := &c.Translation
	t.Model = strings.ToLower(strings.TrimSpace(t.Model))
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	if t.Provider == "" {
		t.Provider = ProviderForModel(t.Model)
	}
	t.TargetLanguage = lowerOr(t.TargetLanguage, defaultTargetLanguage)
	t.GeminiAPIKey = envOr(t.GeminiAPIKey, "GEMINI_API_KEY")
	t.OpenAIAPIKey = envOr(t.OpenAIAPIKey, "OPENAI_API_KEY")
	t.OpenAIBaseURL = envOr(t.OpenAIBaseURL, "OPENAI_BASE_URL")
	if t.OpenAIBaseURL == "" {
		t.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.OnFailure = lowerOr(c.Pipeline.OnFailure, defaultOnFailure)
}

func (c *Config) normalizeBinaries() {
	c.Binaries.FFmpeg = trimOr(c.Binaries.FFmpeg, defaultFFmpegBinary)
	c.Binaries.FFprobe = trimOr(c.Binaries.FFprobe, defaultFFprobeBinary)
	c.Binaries.UVX = trimOr(c.Binaries.UVX, defaultUVXBinary)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = lowerOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = lowerOr(c.Logging.Level, defaultLogLevel)
	if c.Logging.Verbose {
		c.Logging.Level = "debug"
	}
}

func trimOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func lowerOr(value, fallback string) string {
	return strings.ToLower(trimOr(value, fallback))
}

func envOr(value, key string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(env)
	}
	return ""
}
