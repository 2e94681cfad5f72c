package handlers

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/gin-gonic/gin"
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

// The model tags carry Postgres default expressions sqlite cannot parse, so
// the schema is created with plain DDL; the repos set IDs themselves.
func newSessionTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)

    ddl := []string{
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
    }
    for _, stmt := range ddl {
        require.NoError(t, db.Exec(stmt).Error)
    }
    return db
}

func newSessionTestHandler(t *testing.T) (*SessionHandler, repos.SessionRepo, repos.MessageRepo) {
    t.Helper()
    db := newSessionTestDB(t)
    log := logger.NewNop()
    sessionRepo := repos.NewSessionRepo(db, log)
    messageRepo := repos.NewMessageRepo(db, log)
    return NewSessionHandler(sessionRepo, messageRepo), sessionRepo, messageRepo
}

func TestChatAnalysisListsSessionsNewestFirstWithCounts(t *testing.T) {
    gin.SetMode(gin.TestMode)
    handler, sessionRepo, messageRepo := newSessionTestHandler(t)
    ctx := context.Background()

    older := &types.Session{ID: uuid.New(), Title: "last week", CreatedAt: time.Now().Add(-time.Hour)}
    newer := &types.Session{ID: uuid.New(), Title: "today", CreatedAt: time.Now()}
    _, err := sessionRepo.CreateSession(ctx, nil, older)
    require.NoError(t, err)
    _, err = sessionRepo.CreateSession(ctx, nil, newer)
    require.NoError(t, err)

    _, err = messageRepo.CreateMessages(ctx, nil, []*types.Message{
        {SessionID: newer.ID, Role: types.MessageRoleUser, Content: "hi"},
        {SessionID: newer.ID, Role: types.MessageRoleAssistant, Content: "hello"},
    })
    require.NoError(t, err)

    router := gin.New()
    router.GET("/api/chat-analysis", handler.ChatAnalysis)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat-analysis", nil))
    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        Sessions []struct {
            ID           uuid.UUID `json:"id"`
            MessageCount int64     `json:"messageCount"`
        } `json:"sessions"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    require.Len(t, resp.Sessions, 2)
    assert.Equal(t, newer.ID, resp.Sessions[0].ID, "newest session first")
    assert.EqualValues(t, 2, resp.Sessions[0].MessageCount)
    assert.Equal(t, older.ID, resp.Sessions[1].ID)
    assert.EqualValues(t, 0, resp.Sessions[1].MessageCount)
}

func TestMoodBreakdownTalliesUserMessages(t *testing.T) {
    gin.SetMode(gin.TestMode)
    handler, sessionRepo, messageRepo := newSessionTestHandler(t)
    ctx := context.Background()

    session := &types.Session{ID: uuid.New()}
    _, err := sessionRepo.CreateSession(ctx, nil, session)
    require.NoError(t, err)
    _, err = messageRepo.CreateMessages(ctx, nil, []*types.Message{
        {SessionID: session.ID, Role: types.MessageRoleUser, Content: "I feel so happy today"},
        {SessionID: session.ID, Role: types.MessageRoleUser, Content: "work made me anxious though"},
        {SessionID: session.ID, Role: types.MessageRoleUser, Content: "the weather was fine"},
        {SessionID: session.ID, Role: types.MessageRoleAssistant, Content: "glad to hear about your day"},
    })
    require.NoError(t, err)

    router := gin.New()
    router.GET("/api/sessions/:id/analysis", handler.GetMoodBreakdown)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID.String()+"/analysis", nil))
    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        UserMessages int            `json:"userMessages"`
        MoodCounts   map[string]int `json:"moodCounts"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.Equal(t, 3, resp.UserMessages, "assistant rows are excluded")
    assert.Equal(t, 1, resp.MoodCounts["Positive"])
    assert.Equal(t, 1, resp.MoodCounts["Negative"])
    assert.Equal(t, 1, resp.MoodCounts["Neutral"])
}
