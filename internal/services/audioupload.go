package services

import (
  "context"
  "fmt"
  "math/rand"
  "os"
  "path"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

// minAudioBytes guards against recordings that stopped before any real audio
// was captured. Anything this small cannot contain speech.
const minAudioBytes = 2000

type AudioUpload struct {
  Bucket      string    `json:"bucket"`
  Path        string    `json:"path"`
  SignedURL   string    `json:"signedUrl"`
}

type AudioUploadService interface {
  Upload(ctx context.Context, userID, sessionID uuid.UUID, filename string, data []byte, contentType string) (*AudioUpload, error)
  Bucket() string
}

type audioUploadService struct {
  log             *logger.Logger
  bucketService   BucketService
  bucket          string
}

func NewAudioUploadService(log *logger.Logger, bucketService BucketService) AudioUploadService {
  bucket := os.Getenv("AUDIO_BUCKET")
  if bucket == "" {
    bucket = "audio-analyses"
  }
  return &audioUploadService{
    log:           log.With("service", "AudioUploadService"),
    bucketService: bucketService,
    bucket:        bucket,
  }
}

func (as *audioUploadService) Bucket() string {
  return as.bucket
}

func (as *audioUploadService) Upload(ctx context.Context, userID, sessionID uuid.UUID, filename string, data []byte, contentType string) (*AudioUpload, error) {
  if len(data) < minAudioBytes {
    return nil, fmt.Errorf("audio recording too short (%d bytes)", len(data))
  }
  if err := as.bucketService.EnsureBucket(ctx, as.bucket, BucketConfig{
    Public:              false,
    AllowedContentTypes: []string{"audio/*"},
  }); err != nil {
    return nil, err
  }

  ext := strings.TrimPrefix(path.Ext(filename), ".")
  if ext == "" {
    ext = "webm"
  }
  objectPath := fmt.Sprintf("%s/%s/%d_%04d.%s", userID, sessionID, time.Now().UnixMilli(), rand.Intn(10000), ext)

  if err := as.bucketService.UploadFile(ctx, as.bucket, objectPath, data, contentType); err != nil {
    return nil, err
  }
  signed, err := as.bucketService.GetSignedURL(ctx, as.bucket, objectPath, time.Hour)
  if err != nil {
    as.log.Warn("uploaded audio but failed to sign URL", "path", objectPath, "error", err)
    return nil, err
  }
  as.log.Info("uploaded audio recording", "bucket", as.bucket, "path", objectPath, "bytes", len(data))
  return &AudioUpload{
    Bucket:    as.bucket,
    Path:      objectPath,
    SignedURL: signed,
  }, nil
}
