package services

import (
  "context"
  "encoding/json"
  "fmt"

  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

type FaceEmotionResult struct {
  Emotion   string                `json:"emotion"`
  Scores    map[string]float64    `json:"scores"`
  Summary   string                `json:"summary"`
  Raw       json.RawMessage       `json:"raw,omitempty"`
}

// FaceEmotionService wraps raw face-emotion detection with optional
// persistence of the full API response for later inspection.
type FaceEmotionService interface {
  Detect(ctx context.Context, photo []byte, filename string) (*FaceEmotionResult, error)
  DetectAndLog(ctx context.Context, photo []byte, filename string) (*FaceEmotionResult, *types.FaceEmotionLog, error)
  ListLogs(ctx context.Context) ([]*types.FaceEmotionLog, error)
}

type faceEmotionService struct {
  db                  *gorm.DB
  log                 *logger.Logger
  emotionService      EmotionService
  faceEmotionLogRepo  repos.FaceEmotionLogRepo
}

func NewFaceEmotionService(db *gorm.DB, log *logger.Logger, emotionService EmotionService, faceEmotionLogRepo repos.FaceEmotionLogRepo) FaceEmotionService {
  return &faceEmotionService{
    db:                 db,
    log:                log.With("service", "FaceEmotionService"),
    emotionService:     emotionService,
    faceEmotionLogRepo: faceEmotionLogRepo,
  }
}

func (fs *faceEmotionService) Detect(ctx context.Context, photo []byte, filename string) (*FaceEmotionResult, error) {
  if fs.emotionService == nil {
    return nil, fmt.Errorf("no emotion backend configured")
  }
  raw, err := fs.emotionService.Detect(ctx, photo, filename)
  if err != nil {
    return nil, err
  }
  scores, err := EmotionScoresFromResponse(raw)
  if err != nil {
    return nil, err
  }
  emotion := DominantEmotion(scores)
  return &FaceEmotionResult{
    Emotion: emotion,
    Scores:  scores,
    Summary: EmotionSummary(emotion),
    Raw:     raw,
  }, nil
}

func (fs *faceEmotionService) DetectAndLog(ctx context.Context, photo []byte, filename string) (*FaceEmotionResult, *types.FaceEmotionLog, error) {
  result, err := fs.Detect(ctx, photo, filename)
  if err != nil {
    return nil, nil, err
  }
  flog, err := fs.faceEmotionLogRepo.Create(ctx, nil, &types.FaceEmotionLog{
    APIResponse: datatypes.JSON(result.Raw),
  })
  if err != nil {
    return result, nil, fmt.Errorf("failed to persist face emotion log: %w", err)
  }
  return result, flog, nil
}

func (fs *faceEmotionService) ListLogs(ctx context.Context) ([]*types.FaceEmotionLog, error) {
  return fs.faceEmotionLogRepo.ListAll(ctx, nil)
}
