package translation

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// TerminalProgress returns a progress factory drawing to w when w is a
// terminal, and nil otherwise so no bar is drawn into logs or pipes.
func TerminalProgress(w *os.File) func(total int, description string) Progress {
	if w == nil || !(isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())) {
		return nil
	}
	return func(total int, description string) Progress {
		return newBar(w, total, description)
	}
}

func newBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
