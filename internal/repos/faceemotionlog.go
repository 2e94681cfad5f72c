package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type FaceEmotionLogRepo interface {
    Create(ctx context.Context, tx *gorm.DB, flog *types.FaceEmotionLog) (*types.FaceEmotionLog, error)
    ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FaceEmotionLog, error)
}

type faceEmotionLogRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewFaceEmotionLogRepo(db *gorm.DB, baseLog *logger.Logger) FaceEmotionLogRepo {
    return &faceEmotionLogRepo{
        db: db,
        log: baseLog.With("repo", "FaceEmotionLogRepo"),
    }
}

func (fr *faceEmotionLogRepo) Create(ctx context.Context, tx *gorm.DB, flog *types.FaceEmotionLog) (*types.FaceEmotionLog, error) {
    if tx == nil {
        tx = fr.db
    }
    if flog.ID == uuid.Nil {
        flog.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(flog).Error; err != nil {
        fr.log.Error("failed to create face emotion log", "error", err)
        return nil, err
    }
    return flog, nil
}

func (fr *faceEmotionLogRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.FaceEmotionLog, error) {
    if tx == nil {
        tx = fr.db
    }
    var logs []*types.FaceEmotionLog
    if err := tx.WithContext(ctx).
        Order("created_at DESC").
        Find(&logs).Error; err != nil {
        fr.log.Error("failed to list face emotion logs", "error", err)
        return nil, err
    }
    return logs, nil
}
