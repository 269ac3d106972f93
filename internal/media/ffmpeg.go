package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"autosub/internal/language"
	"autosub/internal/logging"
	"autosub/internal/media/ffprobe"
	"autosub/internal/services"
)

const stageName = "media"

// FFmpeg wraps the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	binary  string
	ffprobe string
	run     services.CommandRunner
	probe   services.CommandRunner
	logger  *slog.Logger
}

// NewFFmpeg constructs an FFmpeg wrapper. Empty binary names fall back to
// "ffmpeg" and "ffprobe" on PATH.
func NewFFmpeg(binary, ffprobeBinary string, logger *slog.Logger) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpeg{
		binary:  binary,
		ffprobe: ffprobeBinary,
		run:     services.RunCommand,
		probe:   services.RunCommand,
		logger:  logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// WithCommandRunner allows injecting a custom command runner for tests. It
// replaces both the ffmpeg and ffprobe runners.
func (f *FFmpeg) WithCommandRunner(r services.CommandRunner) {
	if f != nil && r != nil {
		f.run = r
		f.probe = r
	}
}

// WithStreamingOutput mirrors ffmpeg output to w while it runs. ffprobe keeps
// capturing its output since it is parsed.
func (f *FFmpeg) WithStreamingOutput(w io.Writer) {
	if f != nil && w != nil {
		f.run = services.StreamingRunner(w)
	}
}

// Binary returns the ffmpeg executable name.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Probe inspects path with ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	result, err := ffprobe.InspectWith(ctx, f.probe, f.ffprobe, path)
	if err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, stageName, "probe", "ffprobe failed", err)
	}
	return result, nil
}

// ExtractAudioArgs returns the ffmpeg arguments that stream-copy the audio
// of video into dest.
func ExtractAudioArgs(video, dest string) []string {
	return []string{"-y", "-i", video, "-vn", "-acodec", "copy", dest}
}

// ExtractAudio stream-copies the default audio stream of video into dest.
func (f *FFmpeg) ExtractAudio(ctx context.Context, video, dest string) error {
	if strings.TrimSpace(video) == "" || strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, stageName, "extract audio", "video and destination paths are required", nil)
	}
	args := ExtractAudioArgs(video, dest)
	f.logger.Debug("extracting audio",
		logging.String("video", video),
		logging.String("dest", dest),
		logging.String("command", f.binary+" "+strings.Join(args, " ")),
	)
	if _, err := f.run(ctx, f.binary, args...); err != nil {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrExternalTool, stageName, "extract audio", "ffmpeg failed", err)
	}
	return nil
}

// MuxRequest describes the inputs for subtitle muxing.
type MuxRequest struct {
	Video              string // Source video, streams are copied
	Subtitle           string // Primary SRT
	SubtitleLanguage   string // Whisper language code of Subtitle
	Translated         string // Optional second SRT
	TranslatedLanguage string // Whisper language code of Translated
	Output             string // Destination container
}

// TrackCount returns the number of subtitle tracks the request embeds.
func (r MuxRequest) TrackCount() int {
	if strings.TrimSpace(r.Translated) != "" {
		return 2
	}
	return 1
}

// MuxArgs returns the ffmpeg arguments for req. Language codes are written as
// ISO 639-2 tags.
func MuxArgs(req MuxRequest) []string {
	args := []string{"-y", "-i", req.Video, "-i", req.Subtitle}
	two := req.TrackCount() == 2
	if two {
		args = append(args, "-i", req.Translated)
	}
	args = append(args, "-map", "0:v", "-map", "0:a", "-map", "1")
	if two {
		args = append(args, "-map", "2")
	}
	args = append(args,
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language="+language.ToISO3(req.SubtitleLanguage),
	)
	if two {
		args = append(args, "-metadata:s:s:1", "language="+language.ToISO3(req.TranslatedLanguage))
	}
	return append(args, req.Output)
}

// MuxResult reports the outcome of subtitle muxing.
type MuxResult struct {
	OutputPath     string
	SubtitleTracks int
	Languages      []string
}

// Mux embeds one or two SRT files into a copy of the video as mov_text tracks,
// then probes the output to confirm the tracks are present.
func (f *FFmpeg) Mux(ctx context.Context, req MuxRequest) (MuxResult, error) {
	if strings.TrimSpace(req.Video) == "" || strings.TrimSpace(req.Subtitle) == "" || strings.TrimSpace(req.Output) == "" {
		return MuxResult{}, services.Wrap(services.ErrValidation, stageName, "mux", "video, subtitle and output paths are required", nil)
	}
	inputs := []string{req.Video, req.Subtitle}
	if req.TrackCount() == 2 {
		inputs = append(inputs, req.Translated)
	}
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			return MuxResult{}, services.Wrap(services.ErrNotFound, stageName, "mux", "input missing", err)
		}
	}

	args := MuxArgs(req)
	f.logger.Debug("muxing subtitles",
		logging.String("video", req.Video),
		logging.Int("tracks", req.TrackCount()),
		logging.String("command", f.binary+" "+strings.Join(args, " ")),
	)
	if _, err := f.run(ctx, f.binary, args...); err != nil {
		_ = os.Remove(req.Output)
		return MuxResult{}, services.Wrap(services.ErrExternalTool, stageName, "mux", "ffmpeg failed", err)
	}

	return f.VerifyMux(ctx, req)
}

// VerifyMux probes the muxed output and fails when it carries fewer subtitle
// streams than requested.
func (f *FFmpeg) VerifyMux(ctx context.Context, req MuxRequest) (MuxResult, error) {
	probe, err := f.Probe(ctx, req.Output)
	if err != nil {
		return MuxResult{}, err
	}
	result := MuxResult{
		OutputPath:     req.Output,
		SubtitleTracks: probe.SubtitleStreamCount(),
		Languages:      probe.SubtitleLanguages(),
	}
	if want := req.TrackCount(); result.SubtitleTracks < want {
		f.logger.Error("subtitle mux validation failed",
			logging.String("output", req.Output),
			logging.Int("expected_tracks", want),
			logging.Int("found_tracks", result.SubtitleTracks),
			logging.String(logging.FieldEventType, "subtitle_mux_validation_failed"),
		)
		return result, services.Wrap(services.ErrValidation, stageName, "mux validation",
			fmt.Sprintf("expected %d subtitle track(s) but found %d", want, result.SubtitleTracks), nil)
	}
	f.logger.Debug("subtitle mux validation passed",
		logging.String("output", req.Output),
		logging.Int("subtitle_tracks", result.SubtitleTracks),
		logging.Strings("languages", result.Languages),
		logging.String(logging.FieldEventType, "subtitle_mux_validation_passed"),
	)
	return result, nil
}
