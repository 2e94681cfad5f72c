package retry

import (
  "context"
  "time"
)

// Policy describes a bounded retry: how many attempts total and how long to
// wait after a failed attempt. The delay function receives the 1-based number
// of the attempt that just failed, so Linear(300ms) waits 300ms, 600ms, ...
type Policy struct {
  MaxAttempts int
  Delay       func(attempt int) time.Duration
}

// Fixed returns a policy waiting the same duration between every attempt.
func Fixed(attempts int, d time.Duration) Policy {
  return Policy{
    MaxAttempts: attempts,
    Delay: func(int) time.Duration {
      return d
    },
  }
}

// Linear returns a policy whose wait grows linearly with the attempt number.
func Linear(attempts int, step time.Duration) Policy {
  return Policy{
    MaxAttempts: attempts,
    Delay: func(attempt int) time.Duration {
      return step * time.Duration(attempt)
    },
  }
}

// Do runs fn until it succeeds or the attempt budget is exhausted. It returns
// nil on the first success and the last error after exactly MaxAttempts
// failures. The wait between attempts is interruptible through ctx.
func (p Policy) Do(ctx context.Context, fn func() error) error {
  var lastErr error
  for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
    if err := fn(); err == nil {
      return nil
    } else {
      lastErr = err
    }
    if attempt == p.MaxAttempts {
      break
    }
    var wait time.Duration
    if p.Delay != nil {
      wait = p.Delay(attempt)
    }
    if wait <= 0 {
      continue
    }
    timer := time.NewTimer(wait)
    select {
    case <-ctx.Done():
      timer.Stop()
      return ctx.Err()
    case <-timer.C:
    }
  }
  return lastErr
}
