package backend

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rkaranam/concierge/models"
)

var errEmptyCompletion = errors.New("empty completion")

// GeminiClient is the analytical backend for coding and research inputs.
// It keeps one reusable chat session across calls; the session grows without
// trimming and caller-supplied history is ignored.
type GeminiClient struct {
	model *genai.GenerativeModel

	mu   sync.Mutex
	chat *genai.ChatSession
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &Error{Provider: "gemini", Err: err}
	}
	m := client.GenerativeModel(model)
	return &GeminiClient{model: m, chat: m.StartChat()}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, _ []models.Turn, opts Opts) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if opts.MaxTokens > 0 {
		c.model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		c.model.SetTemperature(float32(opts.Temperature))
	}

	resp, err := c.chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", &Error{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &Error{Provider: "gemini", Err: errEmptyCompletion}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", &Error{Provider: "gemini", Err: errEmptyCompletion}
	}
	return sb.String(), nil
}
