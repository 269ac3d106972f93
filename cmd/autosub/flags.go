package main

import (
	"github.com/spf13/cobra"

	"autosub/internal/config"
)

// pipelineFlags holds the per-run overrides shared by the root and watch
// commands. Only flags the user actually set replace config values.
type pipelineFlags struct {
	model       string
	outputDir   string
	srtOnly     bool
	verbose     bool
	task        string
	language    string
	geminiModel string
	languageTo  string
	transcriber string
	onFailure   string
}

func addPipelineFlags(cmd *cobra.Command, f *pipelineFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.model, "model", "small", "Whisper model (tiny, base, small, medium, large-v3, turbo, ...)")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "./out", "Output directory (created if absent)")
	fs.BoolVar(&f.srtOnly, "srt-only", false, "Produce subtitles only, without a muxed video (use --srt-only=false to override config)")
	fs.BoolVar(&f.verbose, "verbose", false, "Debug logging and external tool output (explicit values need the = form, e.g. --verbose=true)")
	fs.StringVar(&f.task, "task", config.TaskTranscribe, "transcribe, or translate (to English)")
	fs.StringVar(&f.language, "language", "auto", "Source language code, or auto to detect")
	fs.StringVar(&f.geminiModel, "gemini-model", "", "Translation model; empty disables translation")
	fs.StringVar(&f.languageTo, "language-to", "zh", "Translation target language")
	fs.StringVar(&f.transcriber, "transcriber", "", "Transcription backend: whisperx or openai (default from config)")
	fs.StringVar(&f.onFailure, "on-failure", "", "Stage failure policy: continue or abort (default from config)")
}

// apply copies every changed flag onto cfg.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("model") {
		cfg.Transcription.Model = f.model
	}
	if changed("output-dir") {
		cfg.Paths.OutputDir = f.outputDir
	}
	if changed("srt-only") {
		cfg.Pipeline.SRTOnly = f.srtOnly
	}
	if changed("verbose") {
		cfg.Logging.Verbose = f.verbose
	}
	if changed("task") {
		cfg.Transcription.Task = f.task
	}
	if changed("language") {
		cfg.Transcription.Language = f.language
	}
	if changed("gemini-model") {
		cfg.Translation.Model = f.geminiModel
		// Re-inferred from the model during normalization.
		cfg.Translation.Provider = ""
	}
	if changed("language-to") {
		cfg.Translation.TargetLanguage = f.languageTo
	}
	if changed("transcriber") {
		cfg.Transcription.Backend = f.transcriber
	}
	if changed("on-failure") {
		cfg.Pipeline.OnFailure = f.onFailure
	}
}
