package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir" yaml:"work_dir"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
}

// Transcription contains speech-to-text settings.
type Transcription struct {
	Backend             string `toml:"backend" yaml:"backend"`
	Model               string `toml:"model" yaml:"model"`
	Task                string `toml:"task" yaml:"task"`
	Language            string `toml:"language" yaml:"language"`
	WhisperXCUDAEnabled bool   `toml:"whisperx_cuda_enabled" yaml:"whisperx_cuda_enabled"`
	WhisperXVADMethod   string `toml:"whisperx_vad_method" yaml:"whisperx_vad_method"`
	WhisperXHFToken     string `toml:"whisperx_hf_token" yaml:"whisperx_hf_token"`
	OpenAIAPIKey        string `toml:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL       string `toml:"openai_base_url" yaml:"openai_base_url"`
}

// Translation contains subtitle translation settings. An empty Model
// disables the stage.
type Translation struct {
	Provider       string `toml:"provider" yaml:"provider"`
	Model          string `toml:"model" yaml:"model"`
	TargetLanguage string `toml:"target_language" yaml:"target_language"`
	GeminiAPIKey   string `toml:"gemini_api_key" yaml:"gemini_api_key"`
	OpenAIAPIKey   string `toml:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL  string `toml:"openai_base_url" yaml:"openai_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Pipeline contains per-run behaviour switches.
type Pipeline struct {
	SRTOnly   bool   `toml:"srt_only" yaml:"srt_only"`
	OnFailure string `toml:"on_failure" yaml:"on_failure"`
}

// Binaries names the external executables.
type Binaries struct {
	FFmpeg  string `toml:"ffmpeg" yaml:"ffmpeg"`
	FFprobe string `toml:"ffprobe" yaml:"ffprobe"`
	UVX     string `toml:"uvx" yaml:"uvx"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format  string `toml:"format" yaml:"format"`
	Level   string `toml:"level" yaml:"level"`
	Verbose bool   `toml:"verbose" yaml:"verbose"`
	// File optionally receives a copy of every log line.
	File string `toml:"file" yaml:"file"`
}

// Config encapsulates all configuration values for autosub.
//
// Configuration sections by subsystem:
//   - Paths: scratch and output directories
//   - Transcription: speech model backend, model, task and source language
//   - Translation: optional subtitle translation provider and target
//   - Pipeline: subtitle-only mode and the stage failure policy
//   - Binaries: ffmpeg/ffprobe/uvx executable names
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Transcription Transcription `toml:"transcription" yaml:"transcription"`
	Translation   Translation   `toml:"translation" yaml:"translation"`
	Pipeline      Pipeline      `toml:"pipeline" yaml:"pipeline"`
	Binaries      Binaries      `toml:"binaries" yaml:"binaries"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/autosub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize re-normalizes and validates a config after flag overrides.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

// loadDotEnv populates the environment from a .env file when present.
// Variables already set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autosub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directory. The scratch directory is
// owned by the workspace and recreated on every run.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
	}
	return nil
}

// TranslationEnabled reports whether the translation stage should run.
func (c *Config) TranslationEnabled() bool {
	return strings.TrimSpace(c.Translation.Model) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
