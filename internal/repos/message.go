package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type MessageRepo interface {
    CreateMessages(ctx context.Context, tx *gorm.DB, msgs []*types.Message) ([]*types.Message, error)
    GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Message, error)
    CountBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
}

type messageRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
    return &messageRepo{
        db:     db,
        log:    baseLog.With("repo", "MessageRepo"),
    }
}

func (mr *messageRepo) CreateMessages(ctx context.Context, tx *gorm.DB, msgs []*types.Message) ([]*types.Message, error) {
    if tx == nil {
        tx = mr.db
    }
    if len(msgs) == 0 {
        return msgs, nil
    }
    for _, m := range msgs {
        if m.ID == uuid.Nil {
            m.ID = uuid.New()
        }
    }
    if err := tx.WithContext(ctx).Create(&msgs).Error; err != nil {
        mr.log.Error("failed to create messages", "error", err)
        return nil, err
    }
    return msgs, nil
}

func (mr *messageRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Message, error) {
    if tx == nil {
        tx = mr.db
    }
    var msgs []*types.Message
    if err := tx.WithContext(ctx).
        Where("session_id = ?", sessionID).
        Order("created_at ASC").
        Find(&msgs).Error; err != nil {
        mr.log.Error("failed to get messages by sessionID", "error", err)
        return nil, err
    }
    return msgs, nil
}

func (mr *messageRepo) CountBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
    if tx == nil {
        tx = mr.db
    }
    var count int64
    if err := tx.WithContext(ctx).
        Model(&types.Message{}).
        Where("session_id = ?", sessionID).
        Count(&count).Error; err != nil {
        return 0, err
    }
    return count, nil
}
