package transcription

import (
	"context"
	"errors"
	"testing"

	"autosub/internal/subtitles"
)

type stubBackend struct {
	result  Result
	err     error
	gotOpts Options
}

func (s *stubBackend) Transcribe(_ context.Context, _ string, opts Options) (Result, error) {
	s.gotOpts = opts
	return s.result, s.err
}

type stubDetector struct {
	code  string
	calls int
}

func (s *stubDetector) Detect(string) string {
	s.calls++
	return s.code
}

func TestPrepareOptionsForcesEnglishForEnglishOnlyModels(t *testing.T) {
	tests := []struct {
		in   Options
		want string
	}{
		{Options{Model: "small.en", Language: "auto"}, "en"},
		{Options{Model: "base.en", Language: "ja"}, "en"},
		{Options{Model: "small", Language: "JA"}, "ja"},
		{Options{Model: "small", Language: ""}, "auto"},
	}
	for _, tt := range tests {
		got := PrepareOptions(tt.in, nil)
		if got.Language != tt.want {
			t.Errorf("PrepareOptions(%+v).Language = %q, want %q", tt.in, got.Language, tt.want)
		}
		if got.Task != "transcribe" {
			t.Errorf("expected default task, got %q", got.Task)
		}
	}
}

func TestServiceResolvesLanguage(t *testing.T) {
	segments := []subtitles.Segment{{Start: 0, End: 1, Text: " hola "}, {Start: 1, End: 2, Text: "amigos"}}
	tests := []struct {
		name         string
		opts         Options
		backendLang  string
		detected     string
		want         string
		wantDetected bool
	}{
		{"explicit", Options{Model: "small", Language: "es"}, "fr", "de", "es", false},
		{"translate", Options{Model: "small", Task: "translate", Language: "auto"}, "es", "de", "en", false},
		{"backend", Options{Model: "small", Language: "auto"}, "spa", "de", "es", false},
		{"detector", Options{Model: "small", Language: "auto"}, "", "es", "es", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &stubBackend{result: Result{Segments: segments, Language: tt.backendLang}}
			detector := &stubDetector{code: tt.detected}
			svc := NewService(backend, detector, nil)
			result, err := svc.Transcribe(context.Background(), "a.aac", tt.opts)
			if err != nil {
				t.Fatalf("Transcribe: %v", err)
			}
			if result.Language != tt.want {
				t.Fatalf("language = %q, want %q", result.Language, tt.want)
			}
			if (detector.calls > 0) != tt.wantDetected {
				t.Fatalf("detector calls = %d", detector.calls)
			}
			if len(result.Segments) != 2 {
				t.Fatalf("expected segments passed through, got %d", len(result.Segments))
			}
		})
	}
}

func TestServicePropagatesBackendError(t *testing.T) {
	svc := NewService(&stubBackend{err: errors.New("model crashed")}, nil, nil)
	if _, err := svc.Transcribe(context.Background(), "a.aac", Options{Model: "small"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestResultText(t *testing.T) {
	r := Result{Segments: []subtitles.Segment{{Text: " a "}, {Text: ""}, {Text: "b"}}}
	if r.Text() != "a b" {
		t.Fatalf("unexpected text %q", r.Text())
	}
}

func TestLinguaDetector(t *testing.T) {
	d := NewLinguaDetector()
	if got := d.Detect(""); got != "" {
		t.Fatalf("expected empty for blank text, got %q", got)
	}
	if got := d.Detect("The weather today is sunny and the children are playing in the park."); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
}

func TestLanguageFromName(t *testing.T) {
	tests := map[string]string{
		"english":  "en",
		"Japanese": "ja",
		"de":       "de",
		"":         "",
		"klingon":  "",
	}
	for in, want := range tests {
		if got := languageFromName(in); got != want {
			t.Errorf("languageFromName(%q) = %q, want %q", in, got, want)
		}
	}
}
