package handlers

import (
    "io"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/moodmate-org/moodmate-backend/internal/repos"
    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type SelfieHandler struct {
    selfieService services.SelfieService
    resolver      services.SessionResolver
}

func NewSelfieHandler(selfieService services.SelfieService, resolver services.SessionResolver) *SelfieHandler {
    return &SelfieHandler{selfieService: selfieService, resolver: resolver}
}

func (sh *SelfieHandler) Analyze(c *gin.Context) {
    fileHeader, err := c.FormFile("image")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
        return
    }
    f, err := fileHeader.Open()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open image"})
        return
    }
    defer f.Close()
    data, err := io.ReadAll(f)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
        return
    }

    userID, err := sh.resolveUser(c, c.PostForm("userId"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    result, err := sh.selfieService.AnalyzeAndStore(c.Request.Context(), userID, fileHeader.Filename, data)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, result)
}

// CreateLog records a selfie the client already hosts or analyzed itself.
func (sh *SelfieHandler) CreateLog(c *gin.Context) {
    var req struct {
        UserID   string `json:"userId,omitempty"`
        ImageURL string `json:"imageUrl"`
        Emotion  string `json:"emotion,omitempty"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    userID, err := sh.resolveUser(c, req.UserID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    slog, err := sh.selfieService.Record(c.Request.Context(), userID, req.ImageURL, req.Emotion)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"log": slog})
}

func (sh *SelfieHandler) ListLogs(c *gin.Context) {
    logs, err := sh.selfieService.List(c.Request.Context(), repos.SelfieLogFilter{
        Emotion: c.Query("emotion"),
        UserID:  parseOptionalUUID(c.Query("userId")),
    })
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (sh *SelfieHandler) resolveUser(c *gin.Context, requested string) (uuid.UUID, error) {
    if id := parseOptionalUUID(requested); id != nil {
        return *id, nil
    }
    if id := callerUserID(c); id != nil {
        return *id, nil
    }
    user, err := sh.resolver.DefaultUser(c.Request.Context(), nil)
    if err != nil {
        return uuid.Nil, err
    }
    return user.ID, nil
}
