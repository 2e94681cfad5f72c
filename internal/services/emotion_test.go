package services

import (
  "encoding/json"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestEmotionScoresFromFacesObject(t *testing.T) {
  raw := json.RawMessage(`{"faces":[{"emotions":{"happy":0.9,"sad":0.05}}]}`)
  scores, err := EmotionScoresFromResponse(raw)
  require.NoError(t, err)
  assert.InDelta(t, 0.9, scores["happy"], 1e-9)
  assert.InDelta(t, 0.05, scores["sad"], 1e-9)
}

func TestEmotionScoresFromTopLevelArray(t *testing.T) {
  raw := json.RawMessage(`[{"emotions":{"neutral":0.7,"surprised":0.2}}]`)
  scores, err := EmotionScoresFromResponse(raw)
  require.NoError(t, err)
  assert.InDelta(t, 0.7, scores["neutral"], 1e-9)
}

func TestEmotionScoresNoFace(t *testing.T) {
  _, err := EmotionScoresFromResponse(json.RawMessage(`{"faces":[]}`))
  require.Error(t, err)
  assert.Contains(t, err.Error(), "no face detected")
}

func TestDominantEmotion(t *testing.T) {
  scores := map[string]float64{"happy": 0.2, "sad": 0.7, "angry": 0.1}
  assert.Equal(t, "sad", DominantEmotion(scores))
}

func TestDominantEmotionEmptyFallsBackToNeutral(t *testing.T) {
  assert.Equal(t, "neutral", DominantEmotion(nil))
}

func TestEmotionSummaryKnownEmotion(t *testing.T) {
  summary := EmotionSummary("happy")
  assert.Contains(t, emotionSummaries["happy"], summary)
}

func TestEmotionSummaryUnknownEmotionUsesNeutral(t *testing.T) {
  summary := EmotionSummary("perplexed")
  assert.Contains(t, emotionSummaries["neutral"], summary)
}
