// Package testsupport builds configs and media fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"autosub/internal/config"
)

// Option adjusts a test config after the temp directories are assigned.
type Option func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns the default config with work and output directories
// under a fresh temp dir.
func NewConfig(t testing.TB, opts ...Option) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithTranslation enables translation with the given model, storing the key
// under the provider the model resolves to.
func WithTranslation(model, apiKey string) Option {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Translation.Model = model
		cfg.Translation.Provider = config.ProviderForModel(model)
		switch cfg.Translation.Provider {
		case config.ProviderOpenAI:
			cfg.Translation.OpenAIAPIKey = apiKey
		default:
			cfg.Translation.GeminiAPIKey = apiKey
		}
	}
}

// WithBackend selects the transcription backend.
func WithBackend(backend string) Option {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Transcription.Backend = backend
	}
}

// WithStubbedBinaries puts no-op executables for names (ffmpeg, ffprobe and
// uvx when empty) at the front of PATH.
func WithStubbedBinaries(names ...string) Option {
	return func(t testing.TB, base string, _ *config.Config) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		bin := mkdir(t, filepath.Join(base, "bin"))
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// WithEmptyPath leaves PATH pointing at an empty directory.
func WithEmptyPath() Option {
	return func(t testing.TB, base string, _ *config.Config) {
		t.Setenv("PATH", mkdir(t, filepath.Join(base, "empty-bin")))
	}
}

func mkdir(t testing.TB, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}
