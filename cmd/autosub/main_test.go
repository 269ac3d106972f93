package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"autosub/internal/config"
	"autosub/internal/services"
	"autosub/internal/testsupport"
)

// isolate points HOME and the working directory at a temp dir and clears
// credentials so no user configuration leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(base)
	return base
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	base := isolate(t)

	out, _, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "defaults were used")
	requireContains(t, out, "translation")
	requireContains(t, out, "disabled")

	target := filepath.Join(base, "conf", "autosub.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, target)
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	base := isolate(t)
	path := filepath.Join(base, "bad.toml")
	if err := os.WriteFile(path, []byte("[transcription]\nmodel = \"enormous\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, "--config", path, "config", "validate")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRootInputErrors(t *testing.T) {
	base := isolate(t)
	videos := filepath.Join(base, "videos")
	testsupport.WriteVideos(t, videos, "a.mp4")
	empty := filepath.Join(base, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	notes := filepath.Join(base, "notes.txt")
	if err := os.WriteFile(notes, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", nil, "no inputs"},
		{"non mp4", []string{notes}, "is not an .mp4 file"},
		{"missing file", []string{filepath.Join(base, "gone.mp4")}, "cannot read"},
		{"empty dir", []string{"--input-dir", empty}, "no .mp4 files found"},
		{"both sources", []string{"-i", videos, filepath.Join(videos, "a.mp4")}, "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			requireContains(t, err.Error(), tt.want)
		})
	}
}

func TestRootRejectsInvalidFlagValues(t *testing.T) {
	base := isolate(t)
	videos := testsupport.WriteVideos(t, filepath.Join(base, "in"), "a.mp4")

	tests := [][]string{
		{"--model", "enormous"},
		{"--task", "summarize"},
		{"--language", "klingon"},
		{"--language-to", "klingon"},
		{"--on-failure", "retry"},
		{"--transcriber", "vosk"},
		{"--gemini-model", "gemini-2.0-flash"},
	}
	for _, flags := range tests {
		t.Run(flags[0], func(t *testing.T) {
			_, _, err := runCLI(t, append(flags, videos[0])...)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error for %v, got %v", flags, err)
			}
		})
	}
}

func TestCollectInputsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteVideos(t, dir, "b.mp4", "a.MP4", "c.mkv")
	if err := os.MkdirAll(filepath.Join(dir, "nested.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := collectInputs(nil, dir)
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.MP4"), filepath.Join(dir, "b.mp4")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("collectInputs = %v, want %v", got, want)
	}
}

func TestPipelineFlagsApplyOnlyChanged(t *testing.T) {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{Use: "test"}
	addPipelineFlags(cmd, flags)
	if err := cmd.ParseFlags([]string{"--srt-only=true", "--gemini-model", "gpt-4o-mini", "--language-to", "ja", "--verbose"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default()
	cfg.Transcription.Model = "medium"
	cfg.Translation.Provider = config.ProviderGemini
	flags.apply(cmd, &cfg)

	if !cfg.Pipeline.SRTOnly || !cfg.Logging.Verbose {
		t.Fatal("expected srt-only and verbose to be applied")
	}
	if cfg.Transcription.Model != "medium" {
		t.Fatalf("unchanged --model overrode config: %q", cfg.Transcription.Model)
	}
	if cfg.Translation.Model != "gpt-4o-mini" || cfg.Translation.TargetLanguage != "ja" {
		t.Fatalf("unexpected translation overrides %+v", cfg.Translation)
	}
	if cfg.Translation.Provider != "" {
		t.Fatalf("provider should be cleared for re-inference, got %q", cfg.Translation.Provider)
	}
}

func TestBoolFlagsTakeEqualsValues(t *testing.T) {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{Use: "test"}
	addPipelineFlags(cmd, flags)
	if err := cmd.ParseFlags([]string{"--srt-only=false", "--verbose=true", "clip.mp4"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default()
	cfg.Pipeline.SRTOnly = true
	flags.apply(cmd, &cfg)
	if cfg.Pipeline.SRTOnly || !cfg.Logging.Verbose {
		t.Fatalf("expected srt-only=false and verbose=true, got %+v %+v", cfg.Pipeline, cfg.Logging)
	}
	if args := cmd.Flags().Args(); len(args) != 1 || args[0] != "clip.mp4" {
		t.Fatalf("unexpected positional args %v", args)
	}
}

func TestSeparateBoolValueIsTreatedAsInput(t *testing.T) {
	base := isolate(t)
	clip := testsupport.WriteVideos(t, base, "clip.mp4")[0]
	_, _, err := runCLI(t, "--srt-only", "true", clip)
	if !errors.Is(err, services.ErrConfiguration) || !strings.Contains(err.Error(), "is not an .mp4 file") {
		t.Fatalf("expected input error for a bare true argument, got %v", err)
	}
}

func TestDoctorRendersChecks(t *testing.T) {
	base := isolate(t)
	bin := filepath.Join(base, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	stubs := map[string]string{
		"ffmpeg":  "#!/bin/sh\necho ' S..... mov_text             3GPP Timed Text subtitle'\n",
		"ffprobe": "#!/bin/sh\nexit 0\n",
	}
	for name, script := range stubs {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)

	out, _, err := runCLI(t, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail without uvx")
	}
	requireContains(t, out, "== autosub doctor ==")
	requireContains(t, out, "FFmpeg mov_text:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "[ERROR]")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "uvx:") && !strings.Contains(line, "[ERROR]") {
			t.Fatalf("expected uvx to be reported missing: %q", line)
		}
		if strings.Contains(line, "FFmpeg mov_text:") && !strings.Contains(line, "[OK]") {
			t.Fatalf("expected mov_text encoder to pass: %q", line)
		}
	}
}

func TestWatchRejectsMissingDirectory(t *testing.T) {
	base := isolate(t)
	_, _, err := runCLI(t, "watch", filepath.Join(base, "nope"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrConfiguration, "inputs", "", "no inputs", nil), 2},
		{fmt.Errorf("run: %w", context.Canceled), 130},
		{errors.New("2 file(s) failed"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
