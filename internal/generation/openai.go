package generation

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAI serves both tasks with a single-turn chat completion against any
// OpenAI-compatible endpoint. MaxLength maps onto max_tokens.
type OpenAI struct {
	client openai.Client
}

func NewOpenAI(client openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

func (p *OpenAI) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	switch req.Task {
	case TaskText2Text, TaskText:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTask, req.Task)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxLength > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxLength))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat %s: %w", req.Model, err)
	}

	cands := make([]Candidate, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		cands = append(cands, Candidate{GeneratedText: c.Message.Content})
	}
	return cands, nil
}
