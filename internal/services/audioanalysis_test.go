package services

import (
  "strings"
  "testing"
  "unicode/utf8"

  "github.com/stretchr/testify/assert"
)

func TestTruncateTranscriptKeepsRuneBoundaries(t *testing.T) {
  short := "feeling fine"
  assert.Equal(t, short, truncateTranscript(short, maxTranscriptChars))

  // "é" is two bytes; a cap of 4 lands mid-rune and must back off to 3.
  accented := "caf" + strings.Repeat("é", 10)
  assert.Equal(t, "caf", truncateTranscript(accented, 4))
  assert.Equal(t, "café", truncateTranscript(accented, 5))

  long := strings.Repeat("あ", 2000) // 3 bytes each
  cut := truncateTranscript(long, maxTranscriptChars)
  assert.True(t, utf8.ValidString(cut))
  assert.LessOrEqual(t, len(cut), maxTranscriptChars)
}

func TestTopAveragedEmotions(t *testing.T) {
  totals := map[string]float64{
    "joy":     1.8,
    "sadness": 0.4,
    "anger":   0.9,
  }
  counts := map[string]int{
    "joy":     2,
    "sadness": 1,
    "anger":   3,
  }

  top := topAveragedEmotions(totals, counts, 2)
  assert.Len(t, top, 2)
  assert.Equal(t, "joy", top[0].Name)
  assert.InDelta(t, 0.9, top[0].Score, 1e-9)
  assert.Equal(t, "sadness", top[1].Name)
  assert.InDelta(t, 0.4, top[1].Score, 1e-9)
}
