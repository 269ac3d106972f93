package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Segment is one timed piece of transcript text. Start and End are seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are rounded
// to the nearest integer, halves to even. The hours field is omitted when it is zero unless
// alwaysIncludeHours is set. Negative input panics.
func FormatTimestamp(seconds float64, alwaysIncludeHours bool) string {
	if seconds < 0 || math.IsNaN(seconds) {
		panic(fmt.Sprintf("subtitles: non-negative timestamp expected, got %v", seconds))
	}
	ms := int64(math.RoundToEven(seconds * 1000))

	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	secs := ms / 1000
	ms -= secs * 1000

	if alwaysIncludeHours || hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
	}
	return fmt.Sprintf("%02d:%02d,%03d", minutes, secs, ms)
}

// WriteSRT writes segments as numbered SRT blocks starting at 1. Text is
// trimmed and any "-->" inside it becomes "->" so it cannot be mistaken for
// a timing line.
func WriteSRT(w io.Writer, segments []Segment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		text := strings.ReplaceAll(strings.TrimSpace(seg.Text), "-->", "->")
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(seg.Start, true),
			FormatTimestamp(seg.End, true),
			text,
		); err != nil {
			return fmt.Errorf("write srt block %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes segments to path, replacing any existing file.
func WriteFile(path string, segments []Segment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create subtitle directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	if err := WriteSRT(file, segments); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close srt: %w", err)
	}
	return nil
}
