package generation

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/hfinference"
)

type HuggingFace struct {
	client *hfinference.Client
}

func NewHuggingFace(client *hfinference.Client) *HuggingFace {
	return &HuggingFace{client: client}
}

func (p *HuggingFace) Generate(ctx context.Context, req Request) ([]Candidate, error) {
	params := hfinference.GenerationParameters{MaxLength: req.MaxLength}

	switch req.Task {
	case TaskText2Text:
	case TaskText:
		// decoder-only models echo the prompt unless told otherwise
		full := false
		params.ReturnFullText = &full
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTask, req.Task)
	}

	out, err := p.client.Generate(ctx, req.Model, hfinference.GenerationRequest{
		Inputs:     req.Prompt,
		Parameters: params,
		Options:    hfinference.Options{WaitForModel: true},
	})
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, 0, len(out))
	for _, g := range out {
		cands = append(cands, Candidate{GeneratedText: g.GeneratedText})
	}
	return cands, nil
}
