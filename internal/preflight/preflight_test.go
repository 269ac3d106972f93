package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autosub/internal/config"
	"autosub/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritableDir_WillBeCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckWritableDir("out", path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected pass for creatable dir, got %+v", result)
	}
	if CheckWritableDir("out", "").Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckSystemDeps_WhisperXNeedsUVX(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"))
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected ffmpeg, ffprobe and uvx, got %d", len(statuses))
	}
	for _, status := range statuses {
		if status.Name == "uvx" {
			continue
		}
		if !status.Available {
			t.Fatalf("expected %s to resolve to stub, got %q", status.Name, status.Detail)
		}
	}

	openai := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendOpenAI))
	if got := len(CheckSystemDeps(openai)); got != 2 {
		t.Fatalf("openai backend should not require uvx, got %d checks", got)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithTranslation("gemini-2.0-flash", ""),
	)
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name == "ffmpeg" && len(args) > 1 && args[1] == "-encoders" {
			return []byte(" S..... mov_text             3GPP Timed Text subtitle\n"), nil
		}
		return nil, errors.New("unexpected")
	}

	results := RunAll(context.Background(), cfg, run)
	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	for _, name := range []string{"FFmpeg", "FFprobe", "uvx", "FFmpeg mov_text", "Work directory", "Output directory", "Transcription"} {
		if r, ok := byName[name]; !ok || !r.Passed {
			t.Fatalf("expected %s to pass, got %+v", name, r)
		}
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Translation" {
		t.Fatalf("expected only the translation key check to fail, got %+v", failed)
	}
	if !strings.Contains(failed[0].Detail, "GEMINI_API_KEY") {
		t.Fatalf("unexpected detail %q", failed[0].Detail)
	}
}

func TestRunAll_MissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEmptyPath())
	failed := Failed(RunAll(context.Background(), cfg, nil))
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"FFmpeg", "FFprobe", "uvx"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %s in failed checks %v", want, names)
		}
	}
	if strings.Contains(joined, "mov_text") {
		t.Fatal("encoder check should be skipped when ffmpeg is missing")
	}
}

func TestCheckTranscriptionCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendOpenAI))
	if CheckTranscriptionCredentials(cfg).Passed {
		t.Fatal("expected failure without openai key")
	}
	cfg.Transcription.OpenAIAPIKey = "sk-test"
	if !CheckTranscriptionCredentials(cfg).Passed {
		t.Fatal("expected pass with openai key")
	}
}
