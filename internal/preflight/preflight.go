package preflight

import (
	"context"

	"autosub/internal/config"
	"autosub/internal/deps"
	"autosub/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Optional bool
}

// RunAll executes all applicable preflight checks for the given config.
// run is used for commands that inspect binaries; nil runs them directly.
func RunAll(ctx context.Context, cfg *config.Config, run services.CommandRunner) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}
	if ffmpeg := findStatus(results, "FFmpeg"); ffmpeg.Passed && !cfg.Pipeline.SRTOnly {
		results = append(results, fromStatus(deps.CheckFFmpegEncoder(ctx, run, cfg.Binaries.FFmpeg, "mov_text")))
	}

	results = append(results, CheckWritableDir("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckWritableDir("Output directory", cfg.Paths.OutputDir))

	results = append(results, CheckTranscriptionCredentials(cfg))
	if cfg.TranslationEnabled() {
		results = append(results, CheckTranslationCredentials(cfg))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Command
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Detail:   detail,
		Optional: status.Optional,
	}
}

func findStatus(results []Result, name string) Result {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return Result{}
}
