package hfinference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

// Client talks to the Hugging Face inference API (or any server exposing the
// same routes, e.g. a self-hosted text-generation-inference gateway).
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type Options struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
	UseCache     bool `json:"use_cache,omitempty"`
}

type GenerationParameters struct {
	MaxLength      int   `json:"max_length,omitempty"`
	ReturnFullText *bool `json:"return_full_text,omitempty"`
}

type GenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters GenerationParameters `json:"parameters"`
	Options    Options              `json:"options"`
}

type Generation struct {
	GeneratedText string `json:"generated_text"`
}

type FeatureExtractionRequest struct {
	Inputs  []string `json:"inputs"`
	Options Options  `json:"options"`
}

type apiError struct {
	Error string `json:"error"`
}

// Generate runs a text2text-generation or text-generation model.
func (c *Client) Generate(ctx context.Context, model string, req GenerationRequest) ([]Generation, error) {
	var out []Generation
	if err := c.post(ctx, "/models/"+model, req, &out); err != nil {
		return nil, fmt.Errorf("hf generate %s: %w", model, err)
	}
	return out, nil
}

// FeatureExtraction returns one pooled embedding per input.
func (c *Client) FeatureExtraction(ctx context.Context, model string, inputs []string) ([][]float64, error) {
	req := FeatureExtractionRequest{
		Inputs:  inputs,
		Options: Options{WaitForModel: true, UseCache: true},
	}

	var out [][]float64
	if err := c.post(ctx, "/pipeline/feature-extraction/"+model, req, &out); err != nil {
		return nil, fmt.Errorf("hf feature-extraction %s: %w", model, err)
	}
	if len(out) != len(inputs) {
		return nil, fmt.Errorf("hf feature-extraction %s: got %d embeddings for %d inputs", model, len(out), len(inputs))
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
