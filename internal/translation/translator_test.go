package translation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type fakeClient struct {
	prompts []string
	fail    map[string]bool
}

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	text := prompt[strings.LastIndex(prompt, ": ")+2:]
	if f.fail[text] {
		return "", errors.New("quota exceeded")
	}
	return "<" + strings.ToUpper(text) + ">\n", nil
}

const sampleSRT = "1\n00:00:00,000 --> 00:00:02,000\nhello\n\n" +
	"2\n00:00:03,000 --> 00:00:05,000\nbad one\nbad two\n\n" +
	"3\n00:00:06,000 --> 00:00:07,000\nworld\n\n"

func writeSRT(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "in.srt")
	if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return src, filepath.Join(dir, "in_t.srt")
}

func TestTranslateFile(t *testing.T) {
	src, dst := writeSRT(t, sampleSRT)
	client := &fakeClient{fail: map[string]bool{"bad one": true, "bad two": true}}
	var sleeps []time.Duration
	tr := New(client, nil, WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }))

	result, err := tr.TranslateFile(context.Background(), src, dst, "zh")
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}

	if !slices.Equal(result.Failed, []int{2}) {
		t.Fatalf("Failed = %v, want [2]", result.Failed)
	}
	if result.Translated != 2 {
		t.Fatalf("Translated = %d, want 2", result.Translated)
	}
	if len(client.prompts) != 4 || client.prompts[0] != "please translate this sentence to zh: hello" {
		t.Fatalf("unexpected prompts %q", client.prompts)
	}
	if len(sleeps) != 4 || sleeps[0] != time.Second {
		t.Fatalf("expected one 1s pause per call, got %v", sleeps)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(string(data), "\n")
	want := strings.Split(sampleSRT, "\n")
	if len(got) != len(want) {
		t.Fatalf("line count %d, want %d", len(got), len(want))
	}
	for i, line := range want {
		switch {
		case line == "hello":
			if got[i] != "<HELLO>" {
				t.Fatalf("line %d = %q", i, got[i])
			}
		case strings.HasPrefix(line, "bad"):
			if got[i] != FailurePrefix+line {
				t.Fatalf("line %d = %q, want failure marker", i, got[i])
			}
		case line == "world":
			if got[i] != "<WORLD>" {
				t.Fatalf("line %d = %q", i, got[i])
			}
		default:
			if got[i] != line {
				t.Fatalf("passthrough line %d changed: %q -> %q", i, line, got[i])
			}
		}
	}
}

func TestTranslateFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	tr := New(&fakeClient{}, nil, WithSleeper(func(time.Duration) {}))
	if _, err := tr.TranslateFile(context.Background(), filepath.Join(dir, "nope.srt"), filepath.Join(dir, "out.srt"), "zh"); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestTranslateFileStopsOnCancel(t *testing.T) {
	src, dst := writeSRT(t, sampleSRT)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeClient{}
	tr := New(client, nil, WithSleeper(func(time.Duration) {}))
	if _, err := tr.TranslateFile(ctx, src, dst, "zh"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.prompts) != 0 {
		t.Fatalf("expected no calls after cancel, got %d", len(client.prompts))
	}
}

type countingProgress struct {
	added    int
	finished bool
}

func (c *countingProgress) Add(n int) error { c.added += n; return nil }
func (c *countingProgress) Finish() error  { c.finished = true; return nil }

func TestTranslateFileReportsProgress(t *testing.T) {
	src, dst := writeSRT(t, sampleSRT)
	progress := &countingProgress{}
	var total int
	tr := New(&fakeClient{}, nil,
		WithSleeper(func(time.Duration) {}),
		WithProgress(func(n int, _ string) Progress { total = n; return progress }),
	)
	if _, err := tr.TranslateFile(context.Background(), src, dst, "ja"); err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if total != progress.added || !progress.finished {
		t.Fatalf("progress total=%d added=%d finished=%v", total, progress.added, progress.finished)
	}
}

func TestIsTranslatable(t *testing.T) {
	tests := map[string]bool{
		"":                              false,
		"12":                            false,
		"00:00:01,000 --> 00:00:02,000": false,
		"hello":                         true,
		"12 monkeys":                    true,
	}
	for line, want := range tests {
		if got := IsTranslatable(line); got != want {
			t.Errorf("IsTranslatable(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestNewBarWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	bar := newBar(&buf, 2, "translating")
	_ = bar.Add(2)
	_ = bar.Finish()
	if TerminalProgress(nil) != nil {
		t.Fatal("expected nil factory without a file")
	}
}
