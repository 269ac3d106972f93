package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"autosub/internal/services"
)

type mockAudioAPI struct {
	TranscriptionFunc func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
	TranslationFunc   func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

func (m *mockAudioAPI) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	return m.TranscriptionFunc(ctx, req)
}

func (m *mockAudioAPI) CreateTranslation(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	return m.TranslationFunc(ctx, req)
}

func verboseResponse(t *testing.T, lang string) openai.AudioResponse {
	t.Helper()
	body := `{"task":"transcribe","language":"` + lang + `","duration":5,"text":"hello world",
		"segments":[{"id":0,"start":0,"end":2,"text":"hello"}]}`
	var resp openai.AudioResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return resp
}

func TestOpenAITranscribeUsesVerboseJSON(t *testing.T) {
	var got openai.AudioRequest
	api := &mockAudioAPI{
		TranscriptionFunc: func(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			got = req
			return verboseResponse(t, "english"), nil
		},
	}
	o := newOpenAIWithClient(api, nil)
	result, err := o.Transcribe(context.Background(), "/tmp/a.aac", Options{Model: "small", Task: "transcribe", Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.Format != openai.AudioResponseFormatVerboseJSON || got.Model != openai.Whisper1 || got.Language != "en" {
		t.Fatalf("unexpected request %+v", got)
	}
	if result.Language != "en" || len(result.Segments) != 1 || result.Segments[0].Text != "hello" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestOpenAITranslateTask(t *testing.T) {
	called := false
	api := &mockAudioAPI{
		TranslationFunc: func(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
			called = true
			if req.Language != "" {
				t.Fatalf("translation must not pass a language, got %q", req.Language)
			}
			return openai.AudioResponse{Text: "only text", Duration: 4}, nil
		},
	}
	o := newOpenAIWithClient(api, nil)
	result, err := o.Transcribe(context.Background(), "/tmp/a.aac", Options{Task: "translate", Language: "ja"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !called {
		t.Fatal("expected translation endpoint")
	}
	if len(result.Segments) != 1 || result.Segments[0].End != 4 {
		t.Fatalf("expected a single fallback segment, got %+v", result.Segments)
	}
}

func TestOpenAIErrorIsExternalTool(t *testing.T) {
	api := &mockAudioAPI{
		TranscriptionFunc: func(context.Context, openai.AudioRequest) (openai.AudioResponse, error) {
			return openai.AudioResponse{}, errors.New("401")
		},
	}
	o := newOpenAIWithClient(api, nil)
	if _, err := o.Transcribe(context.Background(), "/tmp/a.aac", Options{Task: "transcribe"}); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
