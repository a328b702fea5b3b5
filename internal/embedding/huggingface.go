package embedding

import (
	"context"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/hfinference"
)

type HuggingFace struct {
	client *hfinference.Client
	model  string
}

func NewHuggingFace(client *hfinference.Client, model string) *HuggingFace {
	return &HuggingFace{client: client, model: model}
}

func (e *HuggingFace) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.client.FeatureExtraction(ctx, e.model, texts)
}
