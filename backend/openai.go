package backend

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/rkaranam/concierge/models"
)

// OpenAIClient is the conversational backend. Used without explicit history
// it accumulates its own transcript across calls; with explicit history it is
// a pure function of that history.
type OpenAIClient struct {
	client openai.Client
	model  string

	mu    sync.Mutex
	turns []models.Turn
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, history []models.Turn, opts Opts) (string, error) {
	if history != nil {
		return c.complete(ctx, append(append([]models.Turn(nil), history...), models.Turn{Role: models.RoleUser, Content: prompt}), opts)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The user turn stays in the transcript even when the request fails,
	// matching the accumulating chat lane's behavior.
	c.turns = append(c.turns, models.Turn{Role: models.RoleUser, Content: prompt})
	text, err := c.complete(ctx, c.turns, opts)
	if err != nil {
		return "", err
	}
	c.turns = append(c.turns, models.Turn{Role: models.RoleAssistant, Content: text})
	return text, nil
}

func (c *OpenAIClient) complete(ctx context.Context, turns []models.Turn, opts Opts) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: buildMessages(turns),
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: "openai", Err: errEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(turns []models.Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case models.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(t.Content))
		case models.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		default:
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}
	return msgs
}
