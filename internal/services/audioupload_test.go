package services

import (
  "bytes"
  "context"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

func TestUploadRejectsTinyRecordings(t *testing.T) {
  svc := NewAudioUploadService(logger.NewNop(), &fakeBucket{})

  _, err := svc.Upload(context.Background(), uuid.New(), uuid.New(), "clip.webm", []byte("tiny"), "audio/webm")
  require.Error(t, err)
  assert.Contains(t, err.Error(), "too short")
}

func TestUploadBuildsScopedObjectPath(t *testing.T) {
  bucket := &capturingBucket{fakeBucket: fakeBucket{signedURL: "https://signed.example.com/clip"}}
  svc := NewAudioUploadService(logger.NewNop(), bucket)

  userID := uuid.New()
  sessionID := uuid.New()
  data := bytes.Repeat([]byte("a"), minAudioBytes)

  upload, err := svc.Upload(context.Background(), userID, sessionID, "clip.webm", data, "audio/webm")
  require.NoError(t, err)

  assert.Equal(t, svc.Bucket(), upload.Bucket)
  assert.Contains(t, upload.Path, userID.String()+"/"+sessionID.String()+"/")
  assert.Contains(t, upload.Path, ".webm")
  assert.Equal(t, "https://signed.example.com/clip", upload.SignedURL)
  assert.Equal(t, data, bucket.uploaded)
}

type capturingBucket struct {
  fakeBucket
  uploaded []byte
}

func (c *capturingBucket) UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) error {
  c.uploaded = data
  return nil
}
