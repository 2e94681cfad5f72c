package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

type MusicLogService interface {
  Log(ctx context.Context, emotion, weather, songTitle, songID string, playedAt *time.Time) (*types.MusicLog, error)
  List(ctx context.Context, filter repos.MusicLogFilter) ([]*types.MusicLog, error)
  Delete(ctx context.Context, id uuid.UUID) (*types.MusicLog, error)
}

type musicLogService struct {
  db              *gorm.DB
  log             *logger.Logger
  musicLogRepo    repos.MusicLogRepo
  broadcaster     Broadcaster
}

func NewMusicLogService(db *gorm.DB, log *logger.Logger, musicLogRepo repos.MusicLogRepo, broadcaster Broadcaster) MusicLogService {
  return &musicLogService{
    db:           db,
    log:          log.With("service", "MusicLogService"),
    musicLogRepo: musicLogRepo,
    broadcaster:  broadcaster,
  }
}

func (ms *musicLogService) Log(ctx context.Context, emotion, weather, songTitle, songID string, playedAt *time.Time) (*types.MusicLog, error) {
  if emotion == "" || weather == "" || songTitle == "" || songID == "" {
    return nil, fmt.Errorf("emotion, weather, songTitle and songId are required")
  }
  when := time.Now()
  if playedAt != nil {
    when = *playedAt
  }
  mlog := &types.MusicLog{
    Emotion:   emotion,
    Weather:   weather,
    SongTitle: songTitle,
    SongID:    songID,
    PlayedAt:  when,
  }
  saved, err := ms.musicLogRepo.Create(ctx, nil, mlog)
  if err != nil {
    return nil, fmt.Errorf("failed to create music log: %w", err)
  }
  if ms.broadcaster != nil {
    ms.broadcaster.Broadcast("logs", "music_log_created", saved)
  }
  return saved, nil
}

func (ms *musicLogService) List(ctx context.Context, filter repos.MusicLogFilter) ([]*types.MusicLog, error) {
  return ms.musicLogRepo.List(ctx, nil, filter)
}

func (ms *musicLogService) Delete(ctx context.Context, id uuid.UUID) (*types.MusicLog, error) {
  deleted, err := ms.musicLogRepo.DeleteByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("failed to delete music log %s: %w", id, err)
  }
  if ms.broadcaster != nil {
    ms.broadcaster.Broadcast("logs", "music_log_deleted", deleted)
  }
  return deleted, nil
}
