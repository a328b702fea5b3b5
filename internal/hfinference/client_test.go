package hfinference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	var got GenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/flan-t5-small", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"32 teams"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "hf_test", time.Second)
	out, err := c.Generate(context.Background(), "google/flan-t5-small", GenerationRequest{
		Inputs:     "How many teams?",
		Parameters: GenerationParameters{MaxLength: 150},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "32 teams", out[0].GeneratedText)
	assert.Equal(t, "How many teams?", got.Inputs)
	assert.Equal(t, 150, got.Parameters.MaxLength)
}

func TestClient_GenerateOmitsUnsetOptions(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`[{"generated_text":"ok"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, err := c.Generate(context.Background(), "m", GenerationRequest{Inputs: "x"})
	require.NoError(t, err)

	opts := body["options"].(map[string]any)
	assert.NotContains(t, opts, "use_cache")
	assert.NotContains(t, opts, "wait_for_model")
}

func TestClient_GenerateSurfacesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, err := c.Generate(context.Background(), "m", GenerationRequest{Inputs: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Model is currently loading")
}

func TestClient_FeatureExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req FeatureExtractionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Inputs)

		_, _ = w.Write([]byte(`[[0.1,0.2],[0.3,0.4]]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	vecs, err := c.FeatureExtraction(context.Background(), "sentence-transformers/all-MiniLM-L6-v2", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}}, vecs)
}

func TestClient_FeatureExtractionCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[0.1,0.2]]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	_, err := c.FeatureExtraction(context.Background(), "m", []string{"a", "b"})
	assert.ErrorContains(t, err, "got 1 embeddings for 2 inputs")
}

func TestNew_Defaults(t *testing.T) {
	c := New("", "", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 60*time.Second, c.HTTP.Timeout)
}
