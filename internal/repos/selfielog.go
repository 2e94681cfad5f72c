package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

// SelfieLogFilter narrows List results; zero values mean "no filter".
type SelfieLogFilter struct {
    Emotion string
    UserID  *uuid.UUID
}

type SelfieLogRepo interface {
    Create(ctx context.Context, tx *gorm.DB, slog *types.SelfieLog) (*types.SelfieLog, error)
    List(ctx context.Context, tx *gorm.DB, filter SelfieLogFilter) ([]*types.SelfieLog, error)
}

type selfieLogRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewSelfieLogRepo(db *gorm.DB, baseLog *logger.Logger) SelfieLogRepo {
    return &selfieLogRepo{
        db: db,
        log: baseLog.With("repo", "SelfieLogRepo"),
    }
}

func (sr *selfieLogRepo) Create(ctx context.Context, tx *gorm.DB, slog *types.SelfieLog) (*types.SelfieLog, error) {
    if tx == nil {
        tx = sr.db
    }
    if slog.ID == uuid.Nil {
        slog.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(slog).Error; err != nil {
        sr.log.Error("failed to create selfie log", "error", err)
        return nil, err
    }
    return slog, nil
}

func (sr *selfieLogRepo) List(ctx context.Context, tx *gorm.DB, filter SelfieLogFilter) ([]*types.SelfieLog, error) {
    if tx == nil {
        tx = sr.db
    }
    q := tx.WithContext(ctx).Model(&types.SelfieLog{})
    if filter.Emotion != "" {
        q = q.Where("emotion = ?", filter.Emotion)
    }
    if filter.UserID != nil {
        q = q.Where("user_id = ?", *filter.UserID)
    }
    var logs []*types.SelfieLog
    if err := q.Order("created_at DESC").Find(&logs).Error; err != nil {
        sr.log.Error("failed to list selfie logs", "error", err)
        return nil, err
    }
    return logs, nil
}
