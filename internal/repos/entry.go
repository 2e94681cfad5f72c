package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type EntryRepo interface {
    Create(ctx context.Context, tx *gorm.DB, entry *types.Entry) (*types.Entry, error)
    ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Entry, error)
}

type entryRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
    return &entryRepo{
        db: db,
        log: baseLog.With("repo", "EntryRepo"),
    }
}

func (er *entryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.Entry) (*types.Entry, error) {
    if tx == nil {
        tx = er.db
    }
    if entry.ID == uuid.Nil {
        entry.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
        er.log.Error("failed to create entry", "error", err)
        return nil, err
    }
    return entry, nil
}

func (er *entryRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Entry, error) {
    if tx == nil {
        tx = er.db
    }
    var entries []*types.Entry
    if err := tx.WithContext(ctx).
        Order("created_at DESC").
        Limit(limit).
        Find(&entries).Error; err != nil {
        er.log.Error("failed to list entries", "error", err)
        return nil, err
    }
    return entries, nil
}
