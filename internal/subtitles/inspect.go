package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParseTimestamp parses HH:MM:SS,mmm (a period separator and the short
// MM:SS,mmm form are also accepted) into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) == 2 {
		hms = append([]string{"0"}, hms...)
	}
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("timestamp out of range %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// CountCues returns the number of non-empty blank-line separated blocks in
// the SRT file at path.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest start and latest end timestamp found in the
// SRT file at path.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		start, end, ok := parseTimingLine(line)
		if !ok {
			continue
		}
		found = true
		first = math.Min(first, start)
		last = math.Max(last, end)
	}
	if !found {
		return 0, 0, nil
	}
	return first, last, nil
}

// Validate checks an SRT file for format issues and returns a list of
// problems; an empty list means the file passed. When mediaSeconds is
// positive, cues ending after the media are reported.
func Validate(path string, mediaSeconds float64) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	if cues == 0 {
		return append(issues, "empty_subtitle_file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	timings := 0
	prevStart := -1.0
	for n, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		start, end, ok := parseTimingLine(line)
		if !ok {
			issues = append(issues, fmt.Sprintf("invalid_timing_line: line %d", n+1))
			continue
		}
		timings++
		if end < start {
			issues = append(issues, fmt.Sprintf("end_before_start: line %d", n+1))
		}
		if start < prevStart {
			issues = append(issues, fmt.Sprintf("out_of_order: line %d", n+1))
		}
		prevStart = start
		if mediaSeconds > 0 && end > mediaSeconds+1 {
			issues = append(issues, fmt.Sprintf("beyond_media_end: line %d ends at %.3fs", n+1, end))
		}
	}
	if timings == 0 {
		issues = append(issues, "no_valid_timestamps")
	} else if timings != cues {
		issues = append(issues, fmt.Sprintf("cue_count_mismatch: %d blocks, %d timing lines", cues, timings))
	}
	return issues
}

func parseTimingLine(line string) (float64, float64, bool) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, false
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
