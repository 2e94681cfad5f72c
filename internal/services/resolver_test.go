package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// newTestDB builds an in-memory sqlite DB with the tables the service tests
// touch. The model
// tags carry Postgres default expressions sqlite cannot parse, so the schema
// is created with plain DDL; the repos set IDs and timestamps themselves.
func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  require.NoError(t, err)

  ddl := []string{
    `CREATE TABLE "user" (
      id TEXT PRIMARY KEY,
      email TEXT NOT NULL UNIQUE,
      display_name TEXT NOT NULL,
      avatar_bucket_key TEXT,
      avatar_url TEXT,
      created_at DATETIME,
      updated_at DATETIME,
      deleted_at DATETIME
    )`,
    `CREATE TABLE "session" (
      id TEXT PRIMARY KEY,
      user_id TEXT,
      title TEXT,
      created_at DATETIME,
      updated_at DATETIME,
      deleted_at DATETIME
    )`,
    `CREATE TABLE "message" (
      id TEXT PRIMARY KEY,
      session_id TEXT,
      role TEXT,
      content TEXT,
      embedding TEXT,
      created_at DATETIME,
      updated_at DATETIME,
      deleted_at DATETIME
    )`,
    `CREATE TABLE "music_log" (
      id TEXT PRIMARY KEY,
      emotion TEXT,
      weather TEXT,
      song_title TEXT,
      song_id TEXT,
      played_at DATETIME,
      created_at DATETIME,
      updated_at DATETIME,
      deleted_at DATETIME
    )`,
  }
  for _, stmt := range ddl {
    require.NoError(t, db.Exec(stmt).Error)
  }
  return db
}

func newTestResolver(t *testing.T) (SessionResolver, *gorm.DB) {
  t.Helper()
  db := newTestDB(t)
  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  sessionRepo := repos.NewSessionRepo(db, log)
  return NewSessionResolver(db, log, userRepo, sessionRepo, nil), db
}

func TestResolveNilIdentifiersHealsToDefaultUser(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()

  session, err := resolver.Resolve(ctx, nil, nil, nil)
  require.NoError(t, err)
  require.NotEqual(t, uuid.Nil, session.ID)

  var user types.User
  require.NoError(t, db.Where("id = ?", session.UserID).First(&user).Error)
  assert.Equal(t, "default@example.com", user.Email)
  assert.Equal(t, "Default User", user.DisplayName)
}

func TestResolveExistingSessionIsSideEffectFree(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()

  first, err := resolver.Resolve(ctx, nil, nil, nil)
  require.NoError(t, err)

  again, err := resolver.Resolve(ctx, nil, &first.ID, nil)
  require.NoError(t, err)
  assert.Equal(t, first.ID, again.ID)

  var count int64
  require.NoError(t, db.Model(&types.Session{}).Count(&count).Error)
  assert.EqualValues(t, 1, count, "resolving a known session must not create rows")
}

func TestResolveUnknownSessionCreatesReplacement(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()

  stale := uuid.New()
  session, err := resolver.Resolve(ctx, nil, &stale, nil)
  require.NoError(t, err)
  assert.NotEqual(t, stale, session.ID)

  var count int64
  require.NoError(t, db.Model(&types.Session{}).Count(&count).Error)
  assert.EqualValues(t, 1, count)
}

func TestResolveUnknownUserFallsBackToDefault(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()

  ghost := uuid.New()
  session, err := resolver.Resolve(ctx, nil, nil, &ghost)
  require.NoError(t, err)
  assert.NotEqual(t, ghost, session.UserID)

  var user types.User
  require.NoError(t, db.Where("id = ?", session.UserID).First(&user).Error)
  assert.Equal(t, "default@example.com", user.Email)
}

func TestDefaultUserIsIdempotent(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()

  first, err := resolver.DefaultUser(ctx, nil)
  require.NoError(t, err)
  second, err := resolver.DefaultUser(ctx, nil)
  require.NoError(t, err)
  assert.Equal(t, first.ID, second.ID)

  var count int64
  require.NoError(t, db.Model(&types.User{}).Count(&count).Error)
  assert.EqualValues(t, 1, count, "default user must only ever exist once")
}

func TestResolveKnownUserKeepsIdentity(t *testing.T) {
  resolver, db := newTestResolver(t)
  ctx := context.Background()
  log := logger.NewNop()

  userRepo := repos.NewUserRepo(db, log)
  user, err := userRepo.Create(ctx, nil, &types.User{Email: "someone@example.com", DisplayName: "Someone"})
  require.NoError(t, err)

  session, err := resolver.Resolve(ctx, nil, nil, &user.ID)
  require.NoError(t, err)
  assert.Equal(t, user.ID, session.UserID)
}
