package translation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"autosub/internal/logging"
	"autosub/internal/services"
)

const (
	// PromptTemplate is filled with the target language and the line text.
	PromptTemplate = "please translate this sentence to %s: %s"
	// FailurePrefix marks lines the model could not translate.
	FailurePrefix = "[TRANSATION-FAIL]: "
	// DefaultDelay is the pause after every model call.
	DefaultDelay = time.Second
)

// Client sends a prompt to a language model and returns its reply.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Progress receives one tick per input line.
type Progress interface {
	Add(n int) error
	Finish() error
}

// Result summarizes a translated file. Failed holds the cue indices whose
// text could not be translated, each at most once, in file order.
type Result struct {
	Failed     []int
	Translated int
	Passed     int
}

// Translator rewrites SRT files through a Client.
type Translator struct {
	client      Client
	delay       time.Duration
	sleep       func(time.Duration)
	newProgress func(total int, description string) Progress
	logger      *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithSleeper replaces the pause between model calls, mainly for tests.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(t *Translator) {
		if sleep != nil {
			t.sleep = sleep
		}
	}
}

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(t *Translator) {
		if d >= 0 {
			t.delay = d
		}
	}
}

// WithProgress installs a progress reporter factory.
func WithProgress(factory func(total int, description string) Progress) Option {
	return func(t *Translator) {
		t.newProgress = factory
	}
}

// New constructs a Translator.
func New(client Client, logger *slog.Logger, opts ...Option) *Translator {
	if logger == nil {
		logger = logging.NewNop()
	}
	t := &Translator{
		client: client,
		delay:  DefaultDelay,
		sleep:  time.Sleep,
		logger: logging.NewComponentLogger(logger, "translation"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsTranslatable reports whether a line carries subtitle text: it is not
// blank, not purely numeric, and not a timing line.
func IsTranslatable(line string) bool {
	return line != "" && !isNumeric(line) && !strings.Contains(line, "-->")
}

// TranslateFile translates src into dst for targetLang. Per-line failures are
// reported in the Result and never returned as errors; only file I/O errors
// are.
func (t *Translator) TranslateFile(ctx context.Context, src, dst, targetLang string) (Result, error) {
	lines, err := readLines(src)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "translation", "read", "read subtitle file", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "translation", "write", "create translated file", err)
	}
	defer out.Close()

	var progress Progress
	if t.newProgress != nil {
		progress = t.newProgress(len(lines), "translating")
	}

	w := bufio.NewWriter(out)
	result, err := t.translateLines(ctx, lines, targetLang, w, progress)
	if progress != nil {
		_ = progress.Finish()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, services.Wrap(services.ErrTransient, "translation", "write", "write translated file", err)
	}
	if err := w.Flush(); err != nil {
		return result, services.Wrap(services.ErrTransient, "translation", "write", "flush translated file", err)
	}
	if err := out.Close(); err != nil {
		return result, services.Wrap(services.ErrTransient, "translation", "write", "close translated file", err)
	}

	if len(result.Failed) > 0 {
		logging.WarnWithContext(t.logger, "some subtitle lines were not translated", "translation_partial",
			logging.Int("failed_cues", len(result.Failed)),
			logging.Int("translated_lines", result.Translated),
			logging.String(logging.FieldErrorHint, "check the API key, quota and model name"),
			logging.String(logging.FieldImpact, "failed lines keep the original text with a failure marker"),
		)
	}
	t.logger.Info("translation complete",
		logging.String("target_language", targetLang),
		logging.Int("translated_lines", result.Translated),
		logging.Int("passthrough_lines", result.Passed),
		logging.Int("failed_cues", len(result.Failed)),
		logging.String(logging.FieldEventType, "translation_complete"),
	)
	return result, nil
}

func (t *Translator) translateLines(ctx context.Context, lines []string, targetLang string, w io.Writer, progress Progress) (Result, error) {
	var result Result
	cue := 0
	failed := make(map[int]struct{})
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if isNumeric(line) {
			if n, err := strconv.Atoi(line); err == nil {
				cue = n
			}
		}
		outLine := line
		if IsTranslatable(line) {
			translated, ok := t.translateLine(ctx, line, targetLang)
			if ok {
				outLine = translated
				result.Translated++
			} else {
				outLine = FailurePrefix + line
				if _, seen := failed[cue]; !seen {
					failed[cue] = struct{}{}
					result.Failed = append(result.Failed, cue)
				}
			}
		} else {
			result.Passed++
		}
		if _, err := io.WriteString(w, outLine+"\n"); err != nil {
			return result, err
		}
		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return result, nil
}

func (t *Translator) translateLine(ctx context.Context, line, targetLang string) (string, bool) {
	prompt := fmt.Sprintf(PromptTemplate, targetLang, line)
	reply, err := t.client.Generate(ctx, prompt)
	t.sleep(t.delay)
	if err != nil {
		t.logger.Debug("line translation failed",
			logging.String("line", line),
			logging.Error(err),
			logging.String(logging.FieldEventType, "translation_line_failed"),
		)
		return "", false
	}
	reply = strings.Join(strings.Fields(reply), " ")
	if reply == "" {
		return "", false
	}
	t.logger.Debug("line translated",
		logging.String("line", line),
		logging.String("translation", reply),
	)
	return reply, true
}

// readLines returns the file's lines without their terminators.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
