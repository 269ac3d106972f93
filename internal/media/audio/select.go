package audio

import (
	"fmt"
	"strings"

	"autosub/internal/language"
	"autosub/internal/media/ffprobe"
)

// Selection describes the audio stream chosen for extraction.
type Selection struct {
	Primary      ffprobe.Stream
	PrimaryIndex int
	Total        int
}

// Found reports whether any audio stream exists.
func (s Selection) Found() bool {
	return s.PrimaryIndex >= 0
}

// Language returns the primary stream's language as one of language.Codes,
// or "" when the tag is absent or unrecognized.
func (s Selection) Language() string {
	if !s.Found() {
		return ""
	}
	return language.FromTag(s.Primary.Language())
}

// CopyableToADTS reports whether the primary stream can be stream-copied into
// a raw .aac file without re-encoding.
func (s Selection) CopyableToADTS() bool {
	return s.Found() && strings.EqualFold(s.Primary.CodecName, "aac")
}

// PrimaryLabel returns a human-readable summary of the selected primary stream.
func (s Selection) PrimaryLabel() string {
	if !s.Found() {
		return ""
	}
	parts := make([]string, 0, 3)
	if lang := s.Primary.Language(); lang != "" {
		parts = append(parts, lang)
	}
	if codec := strings.TrimSpace(s.Primary.CodecName); codec != "" {
		parts = append(parts, codec)
	}
	if s.Primary.Channels > 0 {
		parts = append(parts, fmt.Sprintf("%dch", s.Primary.Channels))
	}
	return fmt.Sprintf("#%d %s", s.PrimaryIndex, strings.Join(parts, " "))
}

// Select returns the audio stream ffmpeg would pick by default.
func Select(streams []ffprobe.Stream) Selection {
	selection := Selection{PrimaryIndex: -1}
	bestScore := -1
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		selection.Total++
		score := stream.Channels * 10
		if stream.IsDefault() {
			score += 5
		}
		if score > bestScore {
			bestScore = score
			selection.Primary = stream
			selection.PrimaryIndex = stream.Index
		}
	}
	return selection
}
