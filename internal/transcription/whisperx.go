package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"autosub/internal/language"
	"autosub/internal/logging"
	"autosub/internal/services"
	"autosub/internal/subtitles"
)

// WhisperX configuration constants.
const (
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// WhisperXConfig captures runtime settings for WhisperX.
type WhisperXConfig struct {
	// UVX is the uv tool runner binary.
	UVX string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
}

// WhisperX transcribes audio by running WhisperX through uvx.
type WhisperX struct {
	cfg    WhisperXConfig
	run    services.CommandRunner
	logger *slog.Logger
}

// NewWhisperX constructs the WhisperX backend.
func NewWhisperX(cfg WhisperXConfig, logger *slog.Logger) *WhisperX {
	if strings.TrimSpace(cfg.UVX) == "" {
		cfg.UVX = "uvx"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	run := services.RunCommand
	// Torch 2.6 changed the torch.load default to weights_only, which breaks
	// the pyannote checkpoints WhisperX loads.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		run = services.EnvRunner("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return &WhisperX{
		cfg:    cfg,
		run:    run,
		logger: logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperX) WithCommandRunner(r services.CommandRunner) {
	if w != nil && r != nil {
		w.run = r
	}
}

// Transcribe runs WhisperX on audioPath. Output files are written to a
// sibling directory named after the audio file.
func (w *WhisperX) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "transcription", "whisperx", "audio path required", nil)
	}
	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outputDir := filepath.Join(filepath.Dir(audioPath), baseName+"_whisperx")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transcription", "whisperx", "ensure output dir", err)
	}

	args := w.buildArgs(audioPath, outputDir, opts)
	w.logger.Debug("running whisperx",
		logging.String("command", w.cfg.UVX+" "+strings.Join(args, " ")),
	)
	if _, err := w.run(ctx, w.cfg.UVX, args...); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "whisperx failed", err)
	}

	jsonPath := filepath.Join(outputDir, baseName+".json")
	payload, err := loadPayload(jsonPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "read whisperx output", err)
	}
	result := Result{Language: payload.Language}
	for _, seg := range payload.Segments {
		if seg.Start < 0 || seg.End < 0 {
			continue
		}
		result.Segments = append(result.Segments, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return result, nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (w *WhisperX) buildArgs(source, outputDir string, opts Options) []string {
	args := make([]string, 0, 32)

	if w.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", opts.Model,
		"--task", opts.Task,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	vadMethod := w.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && w.cfg.HFToken != "" {
		args = append(args, "--hf_token", w.cfg.HFToken)
	}

	if lang := language.Normalize(opts.Language); lang != "" && lang != language.Auto {
		args = append(args, "--language", lang)
	}

	if w.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

// whisperXSegment is a transcribed segment from WhisperX JSON output.
type whisperXSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// whisperXPayload is the JSON structure from WhisperX output.
type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
	Language string            `json:"language"`
}

func loadPayload(jsonPath string) (whisperXPayload, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return whisperXPayload{}, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return whisperXPayload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}
