package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autosub/internal/config"
	"autosub/internal/fileutil"
	"autosub/internal/logging"
	"autosub/internal/media"
	"autosub/internal/media/audio"
	"autosub/internal/media/ffprobe"
	"autosub/internal/services"
	"autosub/internal/subtitles"
	"autosub/internal/textutil"
	"autosub/internal/transcription"
	"autosub/internal/translation"
	"autosub/internal/workspace"
)

// MediaTool is the ffmpeg surface the pipeline drives.
type MediaTool interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
	ExtractAudio(ctx context.Context, video, dest string) error
	Mux(ctx context.Context, req media.MuxRequest) (media.MuxResult, error)
}

// SubtitleTranslator translates an SRT file into a parallel file.
type SubtitleTranslator interface {
	TranslateFile(ctx context.Context, src, dst, targetLang string) (translation.Result, error)
}

// Options controls a run.
type Options struct {
	OutputDir      string
	SRTOnly        bool
	OnFailure      string // config.FailureContinue or config.FailureAbort
	Transcription  transcription.Options
	TargetLanguage string
}

// OptionsFromConfig returns the run options implied by cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:      cfg.Paths.OutputDir,
		SRTOnly:        cfg.Pipeline.SRTOnly,
		OnFailure:      cfg.Pipeline.OnFailure,
		Transcription:  transcription.OptionsFromConfig(cfg),
		TargetLanguage: cfg.Translation.TargetLanguage,
	}
}

// Runner processes input files sequentially.
type Runner struct {
	ws          *workspace.Workspace
	media       MediaTool
	transcriber transcription.Transcriber
	translator  SubtitleTranslator
	opts        Options
	logger      *slog.Logger
	now         func() time.Time
}

// NewRunner wires the stage collaborators. A nil translator disables the
// translation stage.
func NewRunner(ws *workspace.Workspace, mediaTool MediaTool, transcriber transcription.Transcriber, translator SubtitleTranslator, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.OnFailure == "" {
		opts.OnFailure = config.FailureContinue
	}
	return &Runner{
		ws:          ws,
		media:       mediaTool,
		transcriber: transcriber,
		translator:  translator,
		opts:        opts,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		now:         time.Now,
	}
}

// Run resets the workspace and processes sources in order. Stage failures
// are recorded on the jobs; only cancellation and workspace errors are
// returned.
func (r *Runner) Run(ctx context.Context, sources []string) (Report, error) {
	var report Report
	if err := r.ws.Reset(); err != nil {
		return report, err
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return report, services.Wrap(services.ErrConfiguration, "pipeline", "prepare", "create output directory", err)
	}
	r.logger.Info("run started",
		logging.Int("files", len(sources)),
		logging.String("output_dir", r.opts.OutputDir),
		logging.Bool("srt_only", r.opts.SRTOnly),
		logging.Bool("translation", r.translator != nil),
		logging.String("on_failure", r.opts.OnFailure),
		logging.String(logging.FieldEventType, "run_start"),
	)
	for i, source := range sources {
		job := r.Process(ctx, i+1, source)
		report.Jobs = append(report.Jobs, job)
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}
	r.logger.Info("run finished",
		logging.Int("files", len(report.Jobs)),
		logging.Int("failed_files", report.FailedJobs()),
		logging.Int("failed_translation_lines", report.FailedLines()),
		logging.String(logging.FieldEventType, "run_complete"),
	)
	return report, nil
}

// stageFunc runs a stage. It returns the skip reason when the stage decided
// not to run.
type stageFunc func(ctx context.Context, job *Job) (skip string, err error)

type stage struct {
	name string
	// needs reports why the stage cannot run yet, or "" when its inputs exist.
	needs func(job *Job) string
	run   stageFunc
}

func (r *Runner) stages() []stage {
	return []stage{
		{name: StageCopy, run: r.stageCopy},
		{name: StageProbe, needs: needVideo, run: r.stageProbe},
		{name: StageExtract, needs: needProbedVideo, run: r.stageExtract},
		{name: StageTranscribe, needs: needAudio, run: r.stageTranscribe},
		{name: StageSubtitle, needs: needTranscript, run: r.stageSubtitle},
		{name: StageTranslate, needs: needSubtitle, run: r.stageTranslate},
		{name: StageMux, needs: needVideoAndSubtitle, run: r.stageMux},
		{name: StagePublish, run: r.stagePublish},
	}
}

// Process runs every stage for one source and returns its job record.
func (r *Runner) Process(ctx context.Context, seq int, source string) *Job {
	job := &Job{
		Seq:    seq,
		Source: source,
		Base:   textutil.BaseName(source),
		Start:  r.now(),
	}
	if info, err := os.Stat(source); err == nil {
		job.SizeBytes = info.Size()
	}

	ctx = services.WithJob(ctx, "", filepath.Base(source))
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("processing file",
		logging.Int("seq", seq),
		logging.String("source", source),
		logging.String(logging.FieldEventType, "file_start"),
	)

	aborted := false
	for _, st := range r.stages() {
		if err := ctx.Err(); err != nil {
			job.record(StageResult{Stage: st.name, Status: StatusSkipped, Reason: "cancelled", Err: err})
			continue
		}
		if aborted {
			job.record(StageResult{Stage: st.name, Status: StatusSkipped, Reason: "aborted after earlier failure"})
			continue
		}
		if st.needs != nil {
			if reason := st.needs(job); reason != "" {
				job.record(StageResult{Stage: st.name, Status: StatusSkipped, Reason: reason})
				logger.Debug("stage skipped", logging.String(logging.FieldStage, st.name), logging.String("reason", reason))
				continue
			}
		}
		result := r.runStage(ctx, job, st)
		job.record(result)
		if result.Status == StatusFailed && r.opts.OnFailure == config.FailureAbort {
			aborted = true
		}
	}

	job.End = r.now()
	job.Elapsed = textutil.FormatElapsed(job.End.Sub(job.Start))
	job.Size = textutil.FormatSize(job.SizeBytes)

	if failure, ok := job.FirstFailure(); ok {
		logging.WarnWithContext(logger, "file finished with failures", "file_failed",
			logging.String(logging.FieldStage, failure.Stage),
			logging.String("reason", failure.Reason),
			logging.String("elapsed", job.Elapsed),
			logging.String(logging.FieldImpact, "some artifacts were not produced for this file"),
		)
	} else {
		logger.Info("file complete",
			logging.String("elapsed", job.Elapsed),
			logging.Strings("published", job.Published),
			logging.String(logging.FieldEventType, "file_complete"),
		)
	}
	return job
}

func (r *Runner) runStage(ctx context.Context, job *Job, st stage) StageResult {
	stageCtx := services.WithStage(services.WithJob(ctx, job.ID, ""), st.name)
	stageLogger := logging.WithContext(stageCtx, r.logger)
	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	start := r.now()
	skip, err := st.run(stageCtx, job)
	result := StageResult{Stage: st.name, Status: StatusOK, Elapsed: r.now().Sub(start)}
	switch {
	case err != nil:
		result.Status = StatusFailed
		result.Err = err
		result.Reason = failureReason(err)
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelWarn
		}
		stageLogger.Log(stageCtx, level, "stage failed",
			logging.Args(
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.String("error_kind", services.Kind(err)),
				logging.Error(err),
			)...,
		)
	case skip != "":
		result.Status = StatusSkipped
		result.Reason = skip
		stageLogger.Debug("stage skipped", logging.String("reason", skip))
	default:
		stageLogger.Debug("stage completed",
			logging.Duration("elapsed", result.Elapsed),
			logging.String(logging.FieldEventType, "stage_complete"),
		)
	}
	return result
}

func (j *Job) record(result StageResult) {
	j.Stages = append(j.Stages, result)
}

func failureReason(err error) string {
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func needVideo(job *Job) string {
	if job.VideoPath == "" {
		return "no staged video"
	}
	return ""
}

func needProbedVideo(job *Job) string {
	if reason := needVideo(job); reason != "" {
		return reason
	}
	if st, ok := job.Result(StageProbe); ok && st.Status == StatusFailed && errors.Is(st.Err, services.ErrValidation) {
		return "no audio stream"
	}
	return ""
}

func needAudio(job *Job) string {
	if job.AudioPath == "" {
		return "no extracted audio"
	}
	return ""
}

func needTranscript(job *Job) string {
	if !job.succeeded(StageTranscribe) {
		return "no transcript"
	}
	return ""
}

func needSubtitle(job *Job) string {
	if job.SubtitlePath == "" {
		return "no subtitle file"
	}
	return ""
}

func needVideoAndSubtitle(job *Job) string {
	if reason := needVideo(job); reason != "" {
		return reason
	}
	return needSubtitle(job)
}

func (r *Runner) stageCopy(_ context.Context, job *Job) (string, error) {
	entry, err := r.ws.Stage(job.Source)
	if err != nil {
		return "", err
	}
	job.ID = entry.ID
	job.VideoPath = entry.Path
	job.SizeBytes = entry.Size
	return "", nil
}

func (r *Runner) stageProbe(ctx context.Context, job *Job) (string, error) {
	probe, err := r.media.Probe(ctx, job.VideoPath)
	if err != nil {
		return "", err
	}
	selection := audio.Select(probe.Streams)
	if !selection.Found() {
		return "", services.Wrap(services.ErrValidation, StageProbe, "select audio", "no audio stream", nil)
	}
	if !selection.CopyableToADTS() {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "primary audio is not AAC", "audio_codec_unexpected",
			logging.String("audio_stream", selection.PrimaryLabel()),
			logging.String(logging.FieldErrorHint, "convert the source audio to AAC if extraction fails"),
			logging.String(logging.FieldImpact, "stream copy into .aac may be rejected by ffmpeg"),
		)
	}
	if job.Language == "" {
		job.Language = selection.Language()
	}
	job.MediaDuration = probe.Duration()
	logging.WithContext(ctx, r.logger).Debug("probed source",
		logging.Int("audio_streams", selection.Total),
		logging.String("audio_stream", selection.PrimaryLabel()),
		logging.Int("subtitle_streams", probe.SubtitleStreamCount()),
		logging.Duration("duration", probe.Duration()),
	)
	return "", nil
}

func (r *Runner) stageExtract(ctx context.Context, job *Job) (string, error) {
	dest := r.ws.Path(job.ID, ".aac")
	if err := r.media.ExtractAudio(ctx, job.VideoPath, dest); err != nil {
		return "", err
	}
	job.AudioPath = dest
	return "", nil
}

func (r *Runner) stageTranscribe(ctx context.Context, job *Job) (string, error) {
	result, err := r.transcriber.Transcribe(ctx, job.AudioPath, r.opts.Transcription)
	if err != nil {
		return "", err
	}
	if len(result.Segments) == 0 {
		return "", services.Wrap(services.ErrValidation, StageTranscribe, "transcribe", "speech model returned no segments", nil)
	}
	if result.Language != "" {
		job.Language = result.Language
	}
	job.segments = result.Segments
	return "", nil
}

func (r *Runner) stageSubtitle(ctx context.Context, job *Job) (string, error) {
	dest := r.ws.Path(job.ID, ".srt")
	if err := subtitles.WriteFile(dest, job.segments); err != nil {
		return "", services.Wrap(services.ErrTransient, StageSubtitle, "write", "write subtitle file", err)
	}
	r.checkSubtitle(ctx, job, dest)
	job.SubtitlePath = dest
	job.segments = nil
	return "", nil
}

func (r *Runner) stageTranslate(ctx context.Context, job *Job) (string, error) {
	if r.translator == nil {
		return "translation disabled", nil
	}
	dest := r.ws.Path(job.ID, "_t.srt")
	result, err := r.translator.TranslateFile(ctx, job.SubtitlePath, dest, r.opts.TargetLanguage)
	job.Failed = result.Failed
	if err != nil {
		return "", err
	}
	r.checkSubtitle(ctx, job, dest)
	job.TranslatedPath = dest
	return "", nil
}

// checkSubtitle logs format problems in a written SRT. They never fail the
// stage.
func (r *Runner) checkSubtitle(ctx context.Context, job *Job, path string) {
	issues := subtitles.Validate(path, job.MediaDuration.Seconds())
	if len(issues) == 0 {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "subtitle file has format issues", "subtitle_invalid",
		logging.String("path", filepath.Base(path)),
		logging.Strings("issues", issues),
		logging.String(logging.FieldErrorHint, "inspect the file before relying on it"),
		logging.String(logging.FieldImpact, "players may show cues at the wrong time"),
	)
}

func (r *Runner) stageMux(ctx context.Context, job *Job) (string, error) {
	if r.opts.SRTOnly {
		return "srt-only", nil
	}
	req := media.MuxRequest{
		Video:            job.VideoPath,
		Subtitle:         job.SubtitlePath,
		SubtitleLanguage: job.Language,
		Output:           r.ws.Path(job.ID, "_muxed.mp4"),
	}
	if job.TranslatedPath != "" {
		req.Translated = job.TranslatedPath
		req.TranslatedLanguage = r.opts.TargetLanguage
	}
	result, err := r.media.Mux(ctx, req)
	if err != nil {
		return "", err
	}
	job.MuxedPath = result.OutputPath
	return "", nil
}

func (r *Runner) stagePublish(_ context.Context, job *Job) (string, error) {
	artifacts := []struct {
		src    string
		suffix string
	}{
		{job.MuxedPath, ".mp4"},
		{job.SubtitlePath, ".srt"},
		{job.TranslatedPath, "_t.srt"},
		{job.AudioPath, ".aac"},
	}
	var errs []error
	for _, a := range artifacts {
		if a.src == "" || !fileutil.Exists(a.src) {
			continue
		}
		dst := filepath.Join(r.opts.OutputDir, job.Base+a.suffix)
		if _, err := fileutil.PublishFile(a.src, dst); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(dst), err))
			continue
		}
		job.Published = append(job.Published, dst)
	}
	if len(errs) > 0 {
		return "", services.Wrap(services.ErrTransient, StagePublish, "copy", "publish artifacts", errors.Join(errs...))
	}
	if len(job.Published) == 0 {
		return "nothing to publish", nil
	}
	return "", nil
}
