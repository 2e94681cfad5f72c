package handlers

import (
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type AudioHandler struct {
    audioUploadService    services.AudioUploadService
    audioAnalysisService  services.AudioAnalysisService
    bucketService         services.BucketService
    resolver              services.SessionResolver
}

func NewAudioHandler(audioUploadService services.AudioUploadService, audioAnalysisService services.AudioAnalysisService, bucketService services.BucketService, resolver services.SessionResolver) *AudioHandler {
    return &AudioHandler{
        audioUploadService:   audioUploadService,
        audioAnalysisService: audioAnalysisService,
        bucketService:        bucketService,
        resolver:             resolver,
    }
}

func (ah *AudioHandler) Upload(c *gin.Context) {
    fileHeader, err := c.FormFile("file")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
        return
    }
    f, err := fileHeader.Open()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
        return
    }
    defer f.Close()
    data, err := io.ReadAll(f)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
        return
    }

    session, err := ah.resolver.Resolve(
        c.Request.Context(),
        nil,
        parseOptionalUUID(c.PostForm("sessionId")),
        ah.uploadUserID(c),
    )
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    contentType := fileHeader.Header.Get("Content-Type")
    if contentType == "" {
        contentType = "audio/webm"
    }
    upload, err := ah.audioUploadService.Upload(
        c.Request.Context(),
        session.UserID,
        session.ID,
        fileHeader.Filename,
        data,
        contentType,
    )
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "sessionId": session.ID,
        "upload":    upload,
    })
}

func (ah *AudioHandler) Analyze(c *gin.Context) {
    if ah.audioAnalysisService == nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audio analysis is not configured"})
        return
    }
    var req struct {
        UserID   string `json:"userId,omitempty"`
        AudioURL string `json:"audioUrl"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    if req.AudioURL == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "audioUrl is required"})
        return
    }

    user, err := ah.resolveUser(c, req.UserID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    audioURL := req.AudioURL
    if !strings.HasPrefix(audioURL, "http://") && !strings.HasPrefix(audioURL, "https://") {
        signed, serr := ah.bucketService.GetSignedURL(c.Request.Context(), ah.audioUploadService.Bucket(), audioURL, time.Hour)
        if serr != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": serr.Error()})
            return
        }
        audioURL = signed
    }

    analysis, err := ah.audioAnalysisService.Analyze(c.Request.Context(), user, audioURL)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (ah *AudioHandler) ListAnalyses(c *gin.Context) {
    if ah.audioAnalysisService == nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audio analysis is not configured"})
        return
    }
    user, err := ah.resolveUser(c, c.Query("userId"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    analyses, err := ah.audioAnalysisService.ListForUser(c.Request.Context(), user)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

func (ah *AudioHandler) uploadUserID(c *gin.Context) *uuid.UUID {
    if id := parseOptionalUUID(c.PostForm("userId")); id != nil {
        return id
    }
    return callerUserID(c)
}

// resolveUser yields a concrete user ID, falling back to the default user
// when the request carries no usable identity.
func (ah *AudioHandler) resolveUser(c *gin.Context, requested string) (uuid.UUID, error) {
    if id := parseOptionalUUID(requested); id != nil {
        return *id, nil
    }
    if id := callerUserID(c); id != nil {
        return *id, nil
    }
    user, err := ah.resolver.DefaultUser(c.Request.Context(), nil)
    if err != nil {
        return uuid.Nil, err
    }
    return user.ID, nil
}
