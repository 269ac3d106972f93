package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"autosub/internal/config"
	"autosub/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWritableDir passes when path is an accessible directory, or when it
// does not exist yet but its closest existing parent is writable.
func CheckWritableDir(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckSystemDeps evaluates the external binaries required by cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Binaries.FFmpeg,
			Description: "Required for audio extraction and subtitle muxing",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Binaries.FFprobe,
			Description: "Required for media inspection",
		},
	}
	if cfg.Transcription.Backend == config.BackendWhisperX {
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     cfg.Binaries.UVX,
			Description: "Required for WhisperX-driven transcription",
		})
	}
	return deps.CheckBinaries(requirements)
}

// CheckTranscriptionCredentials reports whether the transcription backend
// has what it needs to authenticate.
func CheckTranscriptionCredentials(cfg *config.Config) Result {
	const name = "Transcription"
	switch cfg.Transcription.Backend {
	case config.BackendOpenAI:
		if strings.TrimSpace(cfg.Transcription.OpenAIAPIKey) == "" {
			return Result{Name: name, Detail: "openai backend: missing API key (set OPENAI_API_KEY)"}
		}
		return Result{Name: name, Passed: true, Detail: "openai backend, API key present"}
	case config.BackendWhisperX:
		detail := fmt.Sprintf("whisperx backend, model %s", cfg.Transcription.Model)
		if cfg.Transcription.WhisperXVADMethod == "pyannote" && strings.TrimSpace(cfg.Transcription.WhisperXHFToken) == "" {
			return Result{Name: name, Detail: detail + ": pyannote VAD requires a Hugging Face token"}
		}
		return Result{Name: name, Passed: true, Detail: detail}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown backend %q", cfg.Transcription.Backend)}
	}
}

// CheckTranslationCredentials reports whether the translation provider has
// an API key.
func CheckTranslationCredentials(cfg *config.Config) Result {
	const name = "Translation"
	t := cfg.Translation
	key, env := t.GeminiAPIKey, "GEMINI_API_KEY"
	if t.Provider == config.ProviderOpenAI {
		key, env = t.OpenAIAPIKey, "OPENAI_API_KEY"
	}
	if strings.TrimSpace(key) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s): missing API key (set %s)", t.Model, t.Provider, env)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s) to %s", t.Model, t.Provider, t.TargetLanguage)}
}
