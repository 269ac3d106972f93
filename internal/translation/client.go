package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"autosub/internal/config"
	"autosub/internal/logging"
)

// legacyGeminiModels maps retired Gemini identifiers to a served model.
var legacyGeminiModels = map[string]string{
	"gemini":     "gemini-2.0-flash",
	"gemini-pro": "gemini-2.0-flash",
}

// ResolveModel returns the API model identifier for a configured model name.
func ResolveModel(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if mapped, ok := legacyGeminiModels[model]; ok {
		return mapped
	}
	return model
}

// GeminiClient generates text with the Gemini API. Several API keys may be
// supplied separated by commas; the client rotates to the next key when one
// is rate limited.
type GeminiClient struct {
	model   string
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	keys    []string
	current int
	clients map[string]*genai.Client
}

// NewGeminiClient constructs a Gemini client.
func NewGeminiClient(apiKeys, model string, timeout time.Duration, logger *slog.Logger) (*GeminiClient, error) {
	keys := splitKeys(apiKeys)
	if len(keys) == 0 {
		return nil, errors.New("gemini api key is required (set GEMINI_API_KEY)")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GeminiClient{
		model:   ResolveModel(model),
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "gemini"),
		keys:    keys,
		clients: make(map[string]*genai.Client, len(keys)),
	}, nil
}

// Generate sends prompt to Gemini and returns the concatenated reply text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var lastErr error
	for range len(g.keys) {
		client, err := g.client(ctx)
		if err != nil {
			lastErr = err
			g.rotate()
			continue
		}
		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			if isRateLimited(err) && len(g.keys) > 1 {
				g.logger.Debug("gemini key rate limited, rotating", logging.Error(err))
				g.rotate()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		if result == nil {
			return "", errors.New("empty response from gemini")
		}
		text := strings.TrimSpace(result.Text())
		if text == "" {
			return "", errors.New("empty response from gemini")
		}
		return text, nil
	}
	return "", fmt.Errorf("all gemini api keys exhausted: %w", lastErr)
}

func (g *GeminiClient) client(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := g.keys[g.current]
	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *GeminiClient) rotate() {
	g.mu.Lock()
	g.current = (g.current + 1) % len(g.keys)
	g.mu.Unlock()
}

// chatAPI is the subset of the go-openai client used for translation.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient generates text with an OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	api     chatAPI
	model   string
	timeout time.Duration
}

// NewOpenAIClient constructs an OpenAI chat client. baseURL may point at any
// compatible server.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required (set OPENAI_API_KEY)")
	}
	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return &OpenAIClient{api: openai.NewClientWithConfig(cfg), model: ResolveModel(model), timeout: timeout}, nil
}

// Generate sends prompt as a single user message.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a subtitle translator. Reply with the translation only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return text, nil
}

// NewClientFromConfig builds the client for the configured provider.
func NewClientFromConfig(cfg config.Translation, logger *slog.Logger) (Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model, timeout, logger)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
