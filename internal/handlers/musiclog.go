package handlers

import (
    "net/http"
    "strconv"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/moodmate-org/moodmate-backend/internal/repos"
    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type MusicLogHandler struct {
    musicLogService     services.MusicLogService
    videoSearchService  services.VideoSearchService
    faceEmotionService  services.FaceEmotionService
}

func NewMusicLogHandler(musicLogService services.MusicLogService, videoSearchService services.VideoSearchService, faceEmotionService services.FaceEmotionService) *MusicLogHandler {
    return &MusicLogHandler{
        musicLogService:    musicLogService,
        videoSearchService: videoSearchService,
        faceEmotionService: faceEmotionService,
    }
}

func (mh *MusicLogHandler) CreateLog(c *gin.Context) {
    var req struct {
        Emotion   string `json:"emotion"`
        Weather   string `json:"weather"`
        SongTitle string `json:"songTitle"`
        SongID    string `json:"songId"`
        PlayedAt  string `json:"playedAt,omitempty"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }

    var playedAt *time.Time
    if req.PlayedAt != "" {
        parsed, perr := time.Parse(time.RFC3339, req.PlayedAt)
        if perr != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "playedAt must be RFC3339"})
            return
        }
        playedAt = &parsed
    }

    mlog, err := mh.musicLogService.Log(c.Request.Context(), req.Emotion, req.Weather, req.SongTitle, req.SongID, playedAt)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"log": mlog})
}

func (mh *MusicLogHandler) ListLogs(c *gin.Context) {
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
    logs, err := mh.musicLogService.List(c.Request.Context(), repos.MusicLogFilter{
        Emotion: c.Query("emotion"),
        Weather: c.Query("weather"),
        Limit:   limit,
    })
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// CombinedLogs returns music logs and face emotion logs together, the shape
// the dashboard timeline consumes.
func (mh *MusicLogHandler) CombinedLogs(c *gin.Context) {
    musicLogs, err := mh.musicLogService.List(c.Request.Context(), repos.MusicLogFilter{})
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    faceEmotionLogs, err := mh.faceEmotionService.ListLogs(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "musicLogs":       musicLogs,
        "faceEmotionLogs": faceEmotionLogs,
    })
}

func (mh *MusicLogHandler) DeleteLog(c *gin.Context) {
    id, err := uuid.Parse(c.Param("id"))
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
        return
    }
    deleted, err := mh.musicLogService.Delete(c.Request.Context(), id)
    if err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "success": true,
        "log":     deleted,
    })
}

func (mh *MusicLogHandler) SearchVideos(c *gin.Context) {
    if mh.videoSearchService == nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{"error": "video search is not configured"})
        return
    }
    query := c.Query("q")
    if query == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
        return
    }
    videos, err := mh.videoSearchService.Search(c.Request.Context(), query)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"videos": videos})
}
