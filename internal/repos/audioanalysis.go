package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type AudioAnalysisRepo interface {
    Create(ctx context.Context, tx *gorm.DB, analysis *types.AudioAnalysis) (*types.AudioAnalysis, error)
    GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AudioAnalysis, error)
}

type audioAnalysisRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewAudioAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AudioAnalysisRepo {
    return &audioAnalysisRepo{
        db: db,
        log: baseLog.With("repo", "AudioAnalysisRepo"),
    }
}

func (ar *audioAnalysisRepo) Create(ctx context.Context, tx *gorm.DB, analysis *types.AudioAnalysis) (*types.AudioAnalysis, error) {
    if tx == nil {
        tx = ar.db
    }
    if analysis.ID == uuid.Nil {
        analysis.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(analysis).Error; err != nil {
        ar.log.Error("failed to create audio analysis", "error", err)
        return nil, err
    }
    return analysis, nil
}

func (ar *audioAnalysisRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AudioAnalysis, error) {
    if tx == nil {
        tx = ar.db
    }
    var analyses []*types.AudioAnalysis
    if err := tx.WithContext(ctx).
        Where("user_id = ?", userID).
        Order("created_at DESC").
        Find(&analyses).Error; err != nil {
        ar.log.Error("failed to get audio analyses by userID", "error", err)
        return nil, err
    }
    return analyses, nil
}
