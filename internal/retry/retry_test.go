package retry_test

import (
  "context"
  "errors"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/retry"
)

func TestDo_StopsOnFirstSuccess(t *testing.T) {
  calls := 0
  p := retry.Fixed(3, time.Millisecond)
  err := p.Do(context.Background(), func() error {
    calls++
    return nil
  })
  require.NoError(t, err)
  assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsExactlyMaxAttempts(t *testing.T) {
  calls := 0
  boom := errors.New("boom")
  p := retry.Fixed(3, time.Millisecond)
  err := p.Do(context.Background(), func() error {
    calls++
    return boom
  })
  require.Error(t, err)
  assert.Equal(t, boom, err)
  assert.Equal(t, 3, calls)
}

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
  calls := 0
  p := retry.Fixed(3, time.Millisecond)
  err := p.Do(context.Background(), func() error {
    calls++
    if calls < 3 {
      return errors.New("transient")
    }
    return nil
  })
  require.NoError(t, err)
  assert.Equal(t, 3, calls)
}

func TestDo_ContextCancelAbortsWait(t *testing.T) {
  ctx, cancel := context.WithCancel(context.Background())
  calls := 0
  p := retry.Fixed(3, time.Hour)
  go func() {
    time.Sleep(10 * time.Millisecond)
    cancel()
  }()
  err := p.Do(ctx, func() error {
    calls++
    return errors.New("transient")
  })
  require.ErrorIs(t, err, context.Canceled)
  assert.Equal(t, 1, calls)
}

func TestLinear_DelayGrowsWithAttempt(t *testing.T) {
  p := retry.Linear(3, 300*time.Millisecond)
  assert.Equal(t, 300*time.Millisecond, p.Delay(1))
  assert.Equal(t, 600*time.Millisecond, p.Delay(2))
  assert.Equal(t, 900*time.Millisecond, p.Delay(3))
}
