package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"autosub/internal/services"
)

// Codec types reported in Stream.CodecType.
const (
	KindVideo    = "video"
	KindAudio    = "audio"
	KindSubtitle = "subtitle"
)

// Result is the subset of `ffprobe -show_format -show_streams` output that
// autosub reads.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one elementary stream of the container.
type Stream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Channels    int               `json:"channels"`
	Tags        map[string]string `json:"tags"`
	Disposition map[string]int    `json:"disposition"`
}

// Format is the container section.
type Format struct {
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// InspectWith runs ffprobe on path through run (services.RunCommand when nil).
// An empty binary means "ffprobe".
func InspectWith(ctx context.Context, run services.CommandRunner, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	if run == nil {
		run = services.RunCommand
	}
	output, err := run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// StreamsOfKind returns the streams of the given kind in container order.
func (r Result) StreamsOfKind(kind string) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			out = append(out, s)
		}
	}
	return out
}

// SubtitleStreamCount returns the number of subtitle streams in the container.
func (r Result) SubtitleStreamCount() int {
	return len(r.StreamsOfKind(KindSubtitle))
}

// SubtitleLanguages lists each subtitle stream's language tag in order, with
// "" for untagged streams.
func (r Result) SubtitleLanguages() []string {
	var langs []string
	for _, s := range r.StreamsOfKind(KindSubtitle) {
		langs = append(langs, s.Language())
	}
	return langs
}

// Duration is the container duration, or zero when ffprobe did not report a
// usable value.
func (r Result) Duration() time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Language returns the lowercased language tag.
func (s Stream) Language() string {
	return strings.ToLower(strings.TrimSpace(s.Tags["language"]))
}

// IsDefault reports whether the stream carries the default disposition.
func (s Stream) IsDefault() bool {
	return s.Disposition["default"] == 1
}
