package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "image"
  "math/rand"
  "os"
  "path"
  "strings"
  "time"

  "github.com/disintegration/imaging"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// maxSelfieEdge caps the longer image edge before upload and analysis. Phone
// camera originals are far larger than the emotion API needs.
const maxSelfieEdge = 1024

type SelfieResult struct {
  Log       *types.SelfieLog      `json:"log"`
  Emotion   string                `json:"emotion"`
  Scores    map[string]float64    `json:"scores"`
  Summary   string                `json:"summary"`
}

type SelfieService interface {
  // AnalyzeAndStore downscales a selfie, uploads it, runs emotion detection
  // and persists the outcome. Without an emotion backend it falls back to a
  // mock neutral read so the flow stays usable in development.
  AnalyzeAndStore(ctx context.Context, userID uuid.UUID, filename string, imageData []byte) (*SelfieResult, error)

  // Record stores a selfie log the client already analyzed or hosted
  // elsewhere, without touching storage or the emotion backend.
  Record(ctx context.Context, userID uuid.UUID, imageURL, emotion string) (*types.SelfieLog, error)
  List(ctx context.Context, filter repos.SelfieLogFilter) ([]*types.SelfieLog, error)
}

type selfieService struct {
  db              *gorm.DB
  log             *logger.Logger
  bucketService   BucketService
  emotionService  EmotionService
  selfieLogRepo   repos.SelfieLogRepo
  bucket          string
}

func NewSelfieService(db *gorm.DB, log *logger.Logger, bucketService BucketService, emotionService EmotionService, selfieLogRepo repos.SelfieLogRepo) SelfieService {
  bucket := os.Getenv("SELFIE_BUCKET")
  if bucket == "" {
    bucket = "moodmate-selfies"
  }
  serviceLog := log.With("service", "SelfieService")
  if emotionService == nil {
    serviceLog.Warn("no emotion backend configured; selfie analysis will use mock results")
  }
  return &selfieService{
    db:             db,
    log:            serviceLog,
    bucketService:  bucketService,
    emotionService: emotionService,
    selfieLogRepo:  selfieLogRepo,
    bucket:         bucket,
  }
}

func (ss *selfieService) AnalyzeAndStore(ctx context.Context, userID uuid.UUID, filename string, imageData []byte) (*SelfieResult, error) {
  resized, err := downscaleImage(imageData)
  if err != nil {
    return nil, fmt.Errorf("failed to process selfie image: %w", err)
  }

  if err := ss.bucketService.EnsureBucket(ctx, ss.bucket, BucketConfig{
    Public:              false,
    AllowedContentTypes: []string{"image/jpeg", "image/png"},
  }); err != nil {
    return nil, err
  }
  ext := strings.TrimPrefix(path.Ext(filename), ".")
  if ext == "" {
    ext = "jpg"
  }
  objectPath := fmt.Sprintf("%s/%d.%s", userID, time.Now().UnixMilli(), ext)
  if err := ss.bucketService.UploadFile(ctx, ss.bucket, objectPath, resized, "image/jpeg"); err != nil {
    return nil, err
  }

  scores, err := ss.detectEmotions(ctx, resized, filename)
  if err != nil {
    return nil, err
  }
  emotion := DominantEmotion(scores)
  summary := EmotionSummary(emotion)

  scoresJSON, _ := json.Marshal(scores)
  signedURL, err := ss.bucketService.GetSignedURL(ctx, ss.bucket, objectPath, time.Hour)
  if err != nil {
    ss.log.Warn("failed to sign selfie URL", "path", objectPath, "error", err)
    signedURL = ""
  }

  slog := &types.SelfieLog{
    UserID:        userID,
    ImageURL:      signedURL,
    Emotion:       emotion,
    EmotionScores: datatypes.JSON(scoresJSON),
    Summary:       summary,
    StorageBucket: ss.bucket,
    StoragePath:   objectPath,
  }
  saved, err := ss.selfieLogRepo.Create(ctx, nil, slog)
  if err != nil {
    return nil, fmt.Errorf("failed to persist selfie log: %w", err)
  }
  return &SelfieResult{
    Log:     saved,
    Emotion: emotion,
    Scores:  scores,
    Summary: summary,
  }, nil
}

func (ss *selfieService) Record(ctx context.Context, userID uuid.UUID, imageURL, emotion string) (*types.SelfieLog, error) {
  if imageURL == "" {
    return nil, fmt.Errorf("imageUrl is required")
  }
  if emotion == "" {
    emotion = "neutral"
  }
  saved, err := ss.selfieLogRepo.Create(ctx, nil, &types.SelfieLog{
    UserID:   userID,
    ImageURL: imageURL,
    Emotion:  emotion,
    Summary:  EmotionSummary(emotion),
  })
  if err != nil {
    return nil, fmt.Errorf("failed to persist selfie log: %w", err)
  }
  return saved, nil
}

func (ss *selfieService) List(ctx context.Context, filter repos.SelfieLogFilter) ([]*types.SelfieLog, error) {
  return ss.selfieLogRepo.List(ctx, nil, filter)
}

func (ss *selfieService) detectEmotions(ctx context.Context, imageData []byte, filename string) (map[string]float64, error) {
  if ss.emotionService == nil {
    return mockEmotionScores(), nil
  }
  raw, err := ss.emotionService.Detect(ctx, imageData, filename)
  if err != nil {
    return nil, fmt.Errorf("failed to detect emotions: %w", err)
  }
  return EmotionScoresFromResponse(raw)
}

// mockEmotionScores keeps the pipeline exercisable without the external API.
func mockEmotionScores() map[string]float64 {
  emotions := []string{"happy", "sad", "angry", "surprised", "neutral", "fearful"}
  dominant := emotions[rand.Intn(len(emotions))]
  scores := make(map[string]float64, len(emotions))
  for _, e := range emotions {
    scores[e] = rand.Float64() * 0.2
  }
  scores[dominant] = 0.6 + rand.Float64()*0.4
  return scores
}

func downscaleImage(data []byte) ([]byte, error) {
  img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
  if err != nil {
    return nil, err
  }
  bounds := img.Bounds()
  if bounds.Dx() > maxSelfieEdge || bounds.Dy() > maxSelfieEdge {
    img = imaging.Fit(img, maxSelfieEdge, maxSelfieEdge, imaging.Lanczos)
  }
  return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
  var buf bytes.Buffer
  if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
    return nil, err
  }
  return buf.Bytes(), nil
}
