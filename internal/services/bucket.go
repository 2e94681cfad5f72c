package services

import (
  "context"
  "errors"
  "fmt"
  "os"
  "strings"
  "sync"
  "time"

  "cloud.google.com/go/storage"
  "google.golang.org/api/googleapi"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/retry"
)

// BucketConfig describes the desired shape of a bucket when it has to be
// created. An existing bucket is returned as-is; EnsureBucket does not
// reconcile config drift.
type BucketConfig struct {
  Public                bool
  AllowedContentTypes   []string
}

type BucketService interface {
  EnsureBucket(ctx context.Context, name string, cfg BucketConfig) error
  UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) error
  GetPublicURL(bucket, path string) string
  GetSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

type gcsBucketService struct {
  log           *logger.Logger
  client        *storage.Client
  projectID     string

  mu            sync.Mutex
  allowedTypes  map[string][]string
}

// Retry budgets for the two storage write paths. Small audio/image blobs and
// human-observed latency do not warrant exponential backoff.
var (
  ensurePolicy = retry.Linear(3, 300*time.Millisecond)
  uploadPolicy = retry.Fixed(3, time.Second)
)

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  projectID := os.Getenv("GCS_PROJECT_ID")
  if projectID == "" {
    projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
  }
  if projectID == "" {
    return nil, fmt.Errorf("missing GCS_PROJECT_ID (or GOOGLE_CLOUD_PROJECT) environment variable")
  }
  client, err := storage.NewClient(context.Background())
  if err != nil {
    return nil, fmt.Errorf("failed to create storage client: %w", err)
  }
  return &gcsBucketService{
    log:          serviceLog,
    client:       client,
    projectID:    projectID,
    allowedTypes: make(map[string][]string),
  }, nil
}

func (bs *gcsBucketService) EnsureBucket(ctx context.Context, name string, cfg BucketConfig) error {
  if name == "" {
    return fmt.Errorf("bucket name is empty")
  }
  lookup := func() error {
    _, err := bs.client.Bucket(name).Attrs(ctx)
    return err
  }
  create := func() error {
    attrs := &storage.BucketAttrs{}
    if cfg.Public {
      attrs.PredefinedDefaultObjectACL = "publicRead"
    }
    return bs.client.Bucket(name).Create(ctx, bs.projectID, attrs)
  }
  err := ensurePolicy.Do(ctx, func() error {
    return ensureOnce(lookup, create)
  })
  if err != nil {
    bs.log.Error("failed to ensure bucket", "bucket", name, "error", err)
    return fmt.Errorf("failed to ensure bucket %q: %w", name, err)
  }
  bs.rememberAllowedTypes(name, cfg.AllowedContentTypes)
  return nil
}

// ensureOnce runs one lookup/create round. A creation conflict means another
// caller won the race, so the bucket is re-fetched and the round succeeds.
func ensureOnce(lookup func() error, create func() error) error {
  err := lookup()
  if err == nil {
    return nil
  }
  if !isBucketNotFound(err) {
    return err
  }
  if cerr := create(); cerr != nil {
    if isBucketConflict(cerr) {
      return lookup()
    }
    return cerr
  }
  return nil
}

func (bs *gcsBucketService) UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) error {
  if allowed := bs.allowedTypesFor(bucket); len(allowed) > 0 && !contentTypeAllowed(allowed, contentType) {
    return fmt.Errorf("content type %q is not allowed in bucket %q", contentType, bucket)
  }
  err := uploadPolicy.Do(ctx, func() error {
    werr := bs.writeObject(ctx, bucket, path, data, contentType)
    if werr != nil {
      bs.log.Warn("upload attempt failed", "bucket", bucket, "path", path, "error", werr)
    }
    return werr
  })
  if err != nil {
    return fmt.Errorf("failed to upload %q to bucket %q after multiple attempts: %w", path, bucket, err)
  }
  return nil
}

func (bs *gcsBucketService) writeObject(ctx context.Context, bucket, path string, data []byte, contentType string) error {
  w := bs.client.Bucket(bucket).Object(path).NewWriter(ctx)
  w.ContentType = contentType
  if _, err := w.Write(data); err != nil {
    _ = w.Close()
    return err
  }
  return w.Close()
}

func (bs *gcsBucketService) GetPublicURL(bucket, path string) string {
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path)
}

func (bs *gcsBucketService) GetSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
  url, err := bs.client.Bucket(bucket).SignedURL(path, &storage.SignedURLOptions{
    Method:  "GET",
    Expires: time.Now().Add(ttl),
  })
  if err != nil {
    return "", fmt.Errorf("failed to create signed URL for %q in bucket %q: %w", path, bucket, err)
  }
  return url, nil
}

func (bs *gcsBucketService) rememberAllowedTypes(bucket string, patterns []string) {
  bs.mu.Lock()
  defer bs.mu.Unlock()
  if len(patterns) > 0 {
    bs.allowedTypes[bucket] = patterns
  }
}

func (bs *gcsBucketService) allowedTypesFor(bucket string) []string {
  bs.mu.Lock()
  defer bs.mu.Unlock()
  return bs.allowedTypes[bucket]
}

// contentTypeAllowed matches a content type against patterns like "audio/*"
// or exact types like "image/png".
func contentTypeAllowed(patterns []string, contentType string) bool {
  for _, p := range patterns {
    if strings.HasSuffix(p, "/*") {
      if strings.HasPrefix(contentType, strings.TrimSuffix(p, "*")) {
        return true
      }
      continue
    }
    if p == contentType {
      return true
    }
  }
  return false
}

func isBucketNotFound(err error) bool {
  if errors.Is(err, storage.ErrBucketNotExist) {
    return true
  }
  var gerr *googleapi.Error
  if errors.As(err, &gerr) {
    return gerr.Code == 404
  }
  return strings.Contains(strings.ToLower(err.Error()), "not found")
}

func isBucketConflict(err error) bool {
  var gerr *googleapi.Error
  if errors.As(err, &gerr) {
    return gerr.Code == 409
  }
  msg := strings.ToLower(err.Error())
  return strings.Contains(msg, "already exists") || strings.Contains(msg, "conflict")
}
