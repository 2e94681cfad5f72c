package services

import (
  "context"
  "fmt"
  "os"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// SessionResolver always yields a usable, persisted session to attach
// messages to, no matter how stale or absent the supplied identifiers are.
// Resolving an existing session is side-effect free; everything else heals
// down to the default user and a fresh session.
type SessionResolver interface {
  Resolve(ctx context.Context, tx *gorm.DB, sessionID *uuid.UUID, userID *uuid.UUID) (*types.Session, error)
  DefaultUser(ctx context.Context, tx *gorm.DB) (*types.User, error)
}

type sessionResolver struct {
  db                *gorm.DB
  log               *logger.Logger
  userRepo          repos.UserRepo
  sessionRepo       repos.SessionRepo
  avatarService     AvatarService
  defaultEmail      string
  defaultName       string
}

func NewSessionResolver(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, sessionRepo repos.SessionRepo, avatarService AvatarService) SessionResolver {
  defaultEmail := os.Getenv("DEFAULT_USER_EMAIL")
  if defaultEmail == "" {
    defaultEmail = "default@example.com"
  }
  return &sessionResolver{
    db:            db,
    log:           log.With("service", "SessionResolver"),
    userRepo:      userRepo,
    sessionRepo:   sessionRepo,
    avatarService: avatarService,
    defaultEmail:  defaultEmail,
    defaultName:   "Default User",
  }
}

func (sr *sessionResolver) Resolve(ctx context.Context, tx *gorm.DB, sessionID *uuid.UUID, userID *uuid.UUID) (*types.Session, error) {
  if sessionID != nil && *sessionID != uuid.Nil {
    session, err := sr.sessionRepo.GetSessionByID(ctx, tx, *sessionID)
    if err == nil {
      return session, nil
    }
    if !repos.IsNotFound(err) {
      return nil, fmt.Errorf("failed to look up session %s: %w", sessionID, err)
    }
    sr.log.Warn("session not found, creating a replacement", "sessionID", *sessionID)
  }

  user, err := sr.resolveUser(ctx, tx, userID)
  if err != nil {
    return nil, err
  }
  session, err := sr.sessionRepo.CreateSession(ctx, tx, &types.Session{UserID: user.ID})
  if err != nil {
    return nil, fmt.Errorf("failed to create session for user %s: %w", user.ID, err)
  }
  sr.log.Info("created new session", "sessionID", session.ID, "userID", user.ID)
  return session, nil
}

func (sr *sessionResolver) resolveUser(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (*types.User, error) {
  if userID != nil && *userID != uuid.Nil {
    user, err := sr.userRepo.GetByID(ctx, tx, *userID)
    if err == nil {
      return user, nil
    }
    if !repos.IsNotFound(err) {
      return nil, fmt.Errorf("failed to look up user %s: %w", userID, err)
    }
    sr.log.Warn("user not found, falling back to default user", "userID", *userID)
  }
  return sr.DefaultUser(ctx, tx)
}

// DefaultUser lazily creates the fallback identity the first time nothing
// concrete can be resolved. A lost creation race is treated as success.
func (sr *sessionResolver) DefaultUser(ctx context.Context, tx *gorm.DB) (*types.User, error) {
  user, err := sr.userRepo.GetByEmail(ctx, tx, sr.defaultEmail)
  if err == nil {
    return user, nil
  }
  if !repos.IsNotFound(err) {
    return nil, fmt.Errorf("failed to look up default user: %w", err)
  }

  created, cerr := sr.userRepo.Create(ctx, tx, &types.User{
    Email:       sr.defaultEmail,
    DisplayName: sr.defaultName,
  })
  if cerr != nil {
    // A concurrent request may have created it between lookup and create.
    if existing, gerr := sr.userRepo.GetByEmail(ctx, tx, sr.defaultEmail); gerr == nil {
      return existing, nil
    }
    return nil, fmt.Errorf("failed to create default user: %w", cerr)
  }
  sr.log.Info("created default user", "email", sr.defaultEmail, "userID", created.ID)

  if sr.avatarService != nil {
    if aerr := sr.avatarService.CreateAndUploadUserAvatar(ctx, tx, created); aerr != nil {
      sr.log.Warn("failed to generate default user avatar", "error", aerr)
    } else if uerr := sr.userRepo.Update(ctx, tx, created); uerr != nil {
      sr.log.Warn("failed to store default user avatar URL", "error", uerr)
    }
  }
  return created, nil
}
