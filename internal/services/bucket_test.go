package services

import (
  "errors"
  "testing"

  "cloud.google.com/go/storage"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "google.golang.org/api/googleapi"
)

func TestEnsureOnceBucketAlreadyExists(t *testing.T) {
  createCalls := 0
  err := ensureOnce(
    func() error { return nil },
    func() error { createCalls++; return nil },
  )
  require.NoError(t, err)
  assert.Equal(t, 0, createCalls, "existing bucket must not be re-created")
}

func TestEnsureOnceCreatesMissingBucket(t *testing.T) {
  createCalls := 0
  err := ensureOnce(
    func() error { return storage.ErrBucketNotExist },
    func() error { createCalls++; return nil },
  )
  require.NoError(t, err)
  assert.Equal(t, 1, createCalls)
}

func TestEnsureOnceCreationConflictIsSuccess(t *testing.T) {
  // Another caller won the creation race; the conflict round must succeed
  // by re-fetching the bucket.
  lookups := 0
  err := ensureOnce(
    func() error {
      lookups++
      if lookups == 1 {
        return storage.ErrBucketNotExist
      }
      return nil
    },
    func() error { return &googleapi.Error{Code: 409} },
  )
  require.NoError(t, err)
  assert.Equal(t, 2, lookups)
}

func TestEnsureOncePropagatesLookupError(t *testing.T) {
  boom := errors.New("permission denied for project")
  err := ensureOnce(
    func() error { return boom },
    func() error { t.Fatal("create must not run"); return nil },
  )
  require.ErrorIs(t, err, boom)
}

func TestEnsureOncePropagatesCreateError(t *testing.T) {
  boom := &googleapi.Error{Code: 500}
  err := ensureOnce(
    func() error { return storage.ErrBucketNotExist },
    func() error { return boom },
  )
  require.Error(t, err)
  assert.ErrorAs(t, err, &boom)
}

func TestIsBucketNotFound(t *testing.T) {
  assert.True(t, isBucketNotFound(storage.ErrBucketNotExist))
  assert.True(t, isBucketNotFound(&googleapi.Error{Code: 404}))
  assert.True(t, isBucketNotFound(errors.New("bucket not found")))
  assert.False(t, isBucketNotFound(errors.New("timeout")))
}

func TestIsBucketConflict(t *testing.T) {
  assert.True(t, isBucketConflict(&googleapi.Error{Code: 409}))
  assert.True(t, isBucketConflict(errors.New("bucket already exists")))
  assert.False(t, isBucketConflict(&googleapi.Error{Code: 500}))
}

func TestContentTypeAllowed(t *testing.T) {
  patterns := []string{"audio/*", "image/png"}

  assert.True(t, contentTypeAllowed(patterns, "audio/webm"))
  assert.True(t, contentTypeAllowed(patterns, "audio/mpeg"))
  assert.True(t, contentTypeAllowed(patterns, "image/png"))
  assert.False(t, contentTypeAllowed(patterns, "image/jpeg"))
  assert.False(t, contentTypeAllowed(patterns, "video/mp4"))
}
