package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestHashing_DeterministicAndNormalised(t *testing.T) {
	h := NewHashing(64)

	vecs, err := h.Embed(context.Background(), []string{
		"The NFL consists of 32 teams.",
		"The NFL consists of 32 teams.",
		"Field goals are worth 3 points",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	assert.Len(t, vecs[0], 64)
	assert.Equal(t, vecs[0], vecs[1])
	assert.NotEqual(t, vecs[0], vecs[2])
	assert.InDelta(t, 1.0, norm(vecs[0]), 1e-9)
	assert.InDelta(t, 1.0, norm(vecs[2]), 1e-9)
}

func TestHashing_EmptyTextIsZeroVector(t *testing.T) {
	h := NewHashing(8)

	vecs, err := h.Embed(context.Background(), []string{"  ...  "})
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 8), vecs[0])
}

func TestHashing_CaseAndPunctuationInsensitive(t *testing.T) {
	h := NewHashing(32)

	vecs, err := h.Embed(context.Background(), []string{"Super Bowl!", "super, bowl"})
	require.NoError(t, err)
	assert.Equal(t, vecs[0], vecs[1])
}

func TestNewHashing_DefaultDimensions(t *testing.T) {
	assert.Equal(t, 384, NewHashing(0).Dimensions())
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"nfl", "s", "32", "teams"}, Tokenize("NFL’s 32 teams."))
	assert.Empty(t, Tokenize(""))
}
