package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/moodmate-org/moodmate-backend/internal/repos"
    "github.com/moodmate-org/moodmate-backend/internal/services"
    "github.com/moodmate-org/moodmate-backend/internal/types"
)

type SessionHandler struct {
    sessionRepo repos.SessionRepo
    messageRepo repos.MessageRepo
}

func NewSessionHandler(sessionRepo repos.SessionRepo, messageRepo repos.MessageRepo) *SessionHandler {
    return &SessionHandler{sessionRepo: sessionRepo, messageRepo: messageRepo}
}

func (sh *SessionHandler) ListSessions(c *gin.Context) {
    userID := parseOptionalUUID(c.Query("userId"))
    if userID == nil {
        userID = callerUserID(c)
    }

    var (
        sessions []*types.Session
        err      error
    )
    if userID != nil {
        sessions, err = sh.sessionRepo.GetUserSessions(c.Request.Context(), nil, *userID)
    } else {
        sessions, err = sh.sessionRepo.ListSessions(c.Request.Context(), nil)
    }
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (sh *SessionHandler) GetMessages(c *gin.Context) {
    sessionID, err := uuid.Parse(c.Param("id"))
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
        return
    }
    msgs, err := sh.messageRepo.GetBySessionID(c.Request.Context(), nil, sessionID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ChatAnalysis lists every session newest-first with its message count, the
// shape the history screen renders.
func (sh *SessionHandler) ChatAnalysis(c *gin.Context) {
    sessions, err := sh.sessionRepo.ListSessions(c.Request.Context(), nil)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    type sessionSummary struct {
        *types.Session
        MessageCount int64 `json:"messageCount"`
    }
    summaries := make([]sessionSummary, 0, len(sessions))
    for _, s := range sessions {
        count, cerr := sh.messageRepo.CountBySessionID(c.Request.Context(), nil, s.ID)
        if cerr != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": cerr.Error()})
            return
        }
        summaries = append(summaries, sessionSummary{Session: s, MessageCount: count})
    }
    c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

// GetMoodBreakdown tallies the derived mood of every user message in a
// session, giving the client a coarse emotional arc of the conversation.
func (sh *SessionHandler) GetMoodBreakdown(c *gin.Context) {
    sessionID, err := uuid.Parse(c.Param("id"))
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
        return
    }
    msgs, err := sh.messageRepo.GetBySessionID(c.Request.Context(), nil, sessionID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    counts := map[string]int{"Positive": 0, "Negative": 0, "Neutral": 0}
    userMessages := 0
    for _, m := range msgs {
        if m.Role != types.MessageRoleUser {
            continue
        }
        counts[services.DeriveMood(m.Content)]++
        userMessages++
    }
    c.JSON(http.StatusOK, gin.H{
        "sessionId":    sessionID,
        "userMessages": userMessages,
        "moodCounts":   counts,
    })
}
