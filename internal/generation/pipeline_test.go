package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/hfinference"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFace_Text2Text(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/flan-t5-small", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`[{"generated_text":" 32 "},{"generated_text":"thirty-two"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFace(hfinference.New(srv.URL, "", time.Second))
	cands, err := p.Generate(context.Background(), Request{
		Task:      TaskText2Text,
		Model:     "google/flan-t5-small",
		Prompt:    "Question: How many teams?",
		MaxLength: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{GeneratedText: " 32 "}, {GeneratedText: "thirty-two"}}, cands)

	assert.Equal(t, "Question: How many teams?", body["inputs"])
	params := body["parameters"].(map[string]any)
	assert.EqualValues(t, 150, params["max_length"])
	assert.NotContains(t, params, "return_full_text")

	opts := body["options"].(map[string]any)
	assert.Equal(t, true, opts["wait_for_model"])
	assert.NotContains(t, opts, "use_cache")
}

func TestHuggingFace_TextGenerationDisablesPromptEcho(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`[{"generated_text":"ok"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFace(hfinference.New(srv.URL, "", time.Second))
	_, err := p.Generate(context.Background(), Request{Task: TaskText, Model: "gpt2", Prompt: "hi"})
	require.NoError(t, err)

	params := body["parameters"].(map[string]any)
	assert.Equal(t, false, params["return_full_text"])
}

func TestHuggingFace_UnsupportedTask(t *testing.T) {
	p := NewHuggingFace(hfinference.New("http://127.0.0.1:0", "", time.Second))
	_, err := p.Generate(context.Background(), Request{Task: "summarization"})
	assert.ErrorIs(t, err, ErrUnsupportedTask)
}

func TestOpenAI_ChoicesBecomeCandidates(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [
				{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  There are 32 teams.  "}}
			],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	client := openai.NewClient(
		option.WithAPIKey("sk-test"),
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
	p := NewOpenAI(client)

	cands, err := p.Generate(context.Background(), Request{
		Task:      TaskText2Text,
		Model:     "gpt-4o-mini",
		Prompt:    "Question: How many teams?",
		MaxLength: 150,
	})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "  There are 32 teams.  ", cands[0].GeneratedText)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 150, body["max_tokens"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestOpenAI_UnsupportedTask(t *testing.T) {
	p := NewOpenAI(openai.NewClient(option.WithAPIKey("sk-test")))
	_, err := p.Generate(context.Background(), Request{Task: "translation"})
	assert.ErrorIs(t, err, ErrUnsupportedTask)
}
