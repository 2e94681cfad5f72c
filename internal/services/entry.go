package services

import (
  "context"
  "fmt"
  "regexp"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

var (
  positivePattern = regexp.MustCompile(`(?i)happy|joy|glad|excited`)
  negativePattern = regexp.MustCompile(`(?i)sad|angry|upset|depress|anxious|worried`)
)

// DeriveMood classifies a journal entry into Positive, Negative or Neutral
// based on keyword matches. Positive wins on ties.
func DeriveMood(content string) string {
  switch {
  case positivePattern.MatchString(content):
    return "Positive"
  case negativePattern.MatchString(content):
    return "Negative"
  default:
    return "Neutral"
  }
}

type EntryService interface {
  Create(ctx context.Context, userID *uuid.UUID, content string) (*types.Entry, error)
  ListRecent(ctx context.Context, limit int) ([]*types.Entry, error)
}

type entryService struct {
  db          *gorm.DB
  log         *logger.Logger
  entryRepo   repos.EntryRepo
}

func NewEntryService(db *gorm.DB, log *logger.Logger, entryRepo repos.EntryRepo) EntryService {
  return &entryService{
    db:        db,
    log:       log.With("service", "EntryService"),
    entryRepo: entryRepo,
  }
}

func (es *entryService) Create(ctx context.Context, userID *uuid.UUID, content string) (*types.Entry, error) {
  content = strings.TrimSpace(content)
  if content == "" {
    return nil, fmt.Errorf("entry content is empty")
  }
  entry := &types.Entry{
    Content: content,
    Mood:    DeriveMood(content),
  }
  if userID != nil && *userID != uuid.Nil {
    entry.UserID = userID
  }
  saved, err := es.entryRepo.Create(ctx, nil, entry)
  if err != nil {
    return nil, fmt.Errorf("failed to create entry: %w", err)
  }
  es.log.Debug("created journal entry", "entryID", saved.ID, "mood", saved.Mood)
  return saved, nil
}

func (es *entryService) ListRecent(ctx context.Context, limit int) ([]*types.Entry, error) {
  if limit <= 0 || limit > 100 {
    limit = 50
  }
  return es.entryRepo.ListRecent(ctx, nil, limit)
}
