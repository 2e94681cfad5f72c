package services

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestDeriveMood(t *testing.T) {
  cases := []struct {
    content string
    want    string
  }{
    {"I am so happy today", "Positive"},
    {"Feeling JOYful and excited!", "Positive"},
    {"I'm sad and tired", "Negative"},
    {"work makes me anxious", "Negative"},
    {"feeling depressed lately", "Negative"},
    {"went grocery shopping", "Neutral"},
    {"", "Neutral"},
    // positive keywords win when both appear
    {"happy but also worried", "Positive"},
  }
  for _, tc := range cases {
    assert.Equal(t, tc.want, DeriveMood(tc.content), "content: %q", tc.content)
  }
}
