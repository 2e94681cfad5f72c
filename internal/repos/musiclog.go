package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

// MusicLogFilter narrows List results; zero values mean "no filter".
type MusicLogFilter struct {
    Emotion string
    Weather string
    Limit   int
}

type MusicLogRepo interface {
    Create(ctx context.Context, tx *gorm.DB, mlog *types.MusicLog) (*types.MusicLog, error)
    List(ctx context.Context, tx *gorm.DB, filter MusicLogFilter) ([]*types.MusicLog, error)
    DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MusicLog, error)
}

type musicLogRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewMusicLogRepo(db *gorm.DB, baseLog *logger.Logger) MusicLogRepo {
    return &musicLogRepo{
        db: db,
        log: baseLog.With("repo", "MusicLogRepo"),
    }
}

func (mr *musicLogRepo) Create(ctx context.Context, tx *gorm.DB, mlog *types.MusicLog) (*types.MusicLog, error) {
    if tx == nil {
        tx = mr.db
    }
    if mlog.ID == uuid.Nil {
        mlog.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(mlog).Error; err != nil {
        mr.log.Error("failed to create music log", "error", err)
        return nil, err
    }
    return mlog, nil
}

func (mr *musicLogRepo) List(ctx context.Context, tx *gorm.DB, filter MusicLogFilter) ([]*types.MusicLog, error) {
    if tx == nil {
        tx = mr.db
    }
    q := tx.WithContext(ctx).Model(&types.MusicLog{})
    if filter.Emotion != "" {
        q = q.Where("emotion = ?", filter.Emotion)
    }
    if filter.Weather != "" {
        q = q.Where("weather = ?", filter.Weather)
    }
    if filter.Limit > 0 {
        q = q.Limit(filter.Limit)
    }
    var logs []*types.MusicLog
    if err := q.Order("played_at DESC").Find(&logs).Error; err != nil {
        mr.log.Error("failed to list music logs", "error", err)
        return nil, err
    }
    return logs, nil
}

func (mr *musicLogRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MusicLog, error) {
    if tx == nil {
        tx = mr.db
    }
    var mlog types.MusicLog
    if err := tx.WithContext(ctx).
        Where("id = ?", id).
        First(&mlog).Error; err != nil {
        return nil, err
    }
    if err := tx.WithContext(ctx).Delete(&mlog).Error; err != nil {
        mr.log.Error("failed to delete music log", "error", err, "id", id)
        return nil, err
    }
    return &mlog, nil
}
