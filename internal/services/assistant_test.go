package services

import (
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/types"
)

func TestCosineSimilarity(t *testing.T) {
  assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
  assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
  assert.InDelta(t, -1.0, cosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

  // degenerate inputs
  assert.Zero(t, cosineSimilarity(nil, nil))
  assert.Zero(t, cosineSimilarity([]float64{1, 2}, []float64{1}))
  assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func messageWithEmbedding(content string, vec []float64, age time.Duration) *types.Message {
  m := &types.Message{
    Role:      types.MessageRoleUser,
    Content:   content,
    Embedding: marshalEmbedding(vec),
  }
  m.CreatedAt = time.Now().Add(-age)
  return m
}

func TestRankBySimilarityFiltersBelowThreshold(t *testing.T) {
  query := []float64{1, 0}
  msgs := []*types.Message{
    messageWithEmbedding("on topic", []float64{1, 0.1}, time.Minute),
    messageWithEmbedding("off topic", []float64{0, 1}, time.Minute),
    messageWithEmbedding("no embedding", nil, time.Minute),
  }
  relevant := rankBySimilarity(msgs, query)
  require.Len(t, relevant, 1)
  assert.Equal(t, "on topic", relevant[0].msg.Content)
}

func TestRankBySimilarityCapsAtFiveOldestFirst(t *testing.T) {
  query := []float64{1, 0}
  var msgs []*types.Message
  for i := 0; i < 8; i++ {
    msgs = append(msgs, messageWithEmbedding("m", []float64{1, float64(i) * 0.01}, time.Duration(8-i)*time.Minute))
  }
  relevant := rankBySimilarity(msgs, query)
  require.Len(t, relevant, maxContextMessages)
  for i := 1; i < len(relevant); i++ {
    assert.True(t, !relevant[i].msg.CreatedAt.Before(relevant[i-1].msg.CreatedAt),
      "context must be ordered oldest-first")
  }
}

func TestEmbeddingRoundTrip(t *testing.T) {
  vec := []float64{0.1, -0.5, 3}
  assert.Equal(t, vec, unmarshalEmbedding(marshalEmbedding(vec)))
  assert.Nil(t, unmarshalEmbedding(nil))
  assert.Nil(t, marshalEmbedding(nil))
}
