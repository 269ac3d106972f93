package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"autosub/internal/services"
)

// CheckFFmpegEncoder reports whether the ffmpeg binary lists the named
// encoder, such as mov_text for MP4 subtitle tracks.
func CheckFFmpegEncoder(ctx context.Context, run services.CommandRunner, binary, encoder string) Status {
	result := Status{Requirement: Requirement{
		Name:        "FFmpeg " + encoder,
		Command:     binary,
		Description: "Required to embed subtitle tracks",
	}}
	if run == nil {
		run = services.RunCommand
	}
	output, err := run(ctx, binary, "-hide_banner", "-encoders")
	if err != nil {
		result.Detail = fmt.Sprintf("could not list encoders (%v)", err)
		return result
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == encoder {
			result.Available = true
			return result
		}
	}
	result.Detail = fmt.Sprintf("encoder %q not compiled into %s", encoder, binary)
	return result
}
