package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type SessionRepo interface {
    CreateSession(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error)
    GetSessionByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error)
    GetUserSessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Session, error)
    ListSessions(ctx context.Context, tx *gorm.DB) ([]*types.Session, error)
}

type sessionRepo struct {
    db      *gorm.DB
    log     *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
    return &sessionRepo{
        db: db,
        log: baseLog.With("repo", "SessionRepo"),
    }
}

func (sr *sessionRepo) CreateSession(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error) {
    if tx == nil {
        tx = sr.db
    }
    if session.ID == uuid.Nil {
        session.ID = uuid.New()
    }
    if err := tx.WithContext(ctx).Create(session).Error; err != nil {
        sr.log.Error("failed to create session", "error", err)
        return nil, err
    }
    return session, nil
}

func (sr *sessionRepo) GetSessionByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error) {
    if tx == nil {
        tx = sr.db
    }
    var s types.Session
    if err := tx.WithContext(ctx).
        Where("id = ?", id).
        First(&s).Error; err != nil {
        return nil, err
    }
    return &s, nil
}

func (sr *sessionRepo) GetUserSessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Session, error) {
    if tx == nil {
        tx = sr.db
    }
    var sessions []*types.Session
    if err := tx.WithContext(ctx).
        Where("user_id = ?", userID).
        Order("created_at DESC").
        Find(&sessions).Error; err != nil {
        return nil, err
    }
    return sessions, nil
}

func (sr *sessionRepo) ListSessions(ctx context.Context, tx *gorm.DB) ([]*types.Session, error) {
    if tx == nil {
        tx = sr.db
    }
    var sessions []*types.Session
    if err := tx.WithContext(ctx).
        Order("created_at DESC").
        Find(&sessions).Error; err != nil {
        return nil, err
    }
    return sessions, nil
}
