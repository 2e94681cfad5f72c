package services

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestCrisisPattern(t *testing.T) {
  matches := []string{
    "I've been thinking about suicide",
    "sometimes I want to hurt myself",
    "I just want to end my life",
    "self-harm has crossed my mind",
    "I feel SUICIDAL tonight",
  }
  for _, msg := range matches {
    assert.True(t, crisisPattern.MatchString(msg), "should match: %q", msg)
  }

  nonMatches := []string{
    "I had a bad day at work",
    "my plant is dying",
    "this deadline is killing me",
  }
  for _, msg := range nonMatches {
    assert.False(t, crisisPattern.MatchString(msg), "should not match: %q", msg)
  }
}
