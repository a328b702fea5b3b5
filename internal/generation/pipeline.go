// Package generation wraps pretrained text-generation models behind a single
// call: task, model, prompt and max length in, candidate generations out.
package generation

import (
	"context"
	"errors"
)

const (
	TaskText2Text = "text2text-generation"
	TaskText      = "text-generation"
)

var (
	ErrUnsupportedTask = errors.New("unsupported generation task")
	ErrNoCandidates    = errors.New("model returned no candidates")
)

type Request struct {
	Task      string
	Model     string
	Prompt    string
	MaxLength int
}

type Candidate struct {
	GeneratedText string `json:"generated_text"`
}

type Pipeline interface {
	Generate(ctx context.Context, req Request) ([]Candidate, error)
}
