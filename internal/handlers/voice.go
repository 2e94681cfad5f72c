package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type VoiceHandler struct {
    voicePipeline       services.VoicePipeline
    audioUploadService  services.AudioUploadService
}

func NewVoiceHandler(voicePipeline services.VoicePipeline, audioUploadService services.AudioUploadService) *VoiceHandler {
    return &VoiceHandler{voicePipeline: voicePipeline, audioUploadService: audioUploadService}
}

func (vh *VoiceHandler) ProcessVoice(c *gin.Context) {
    var req struct {
        SessionID string `json:"sessionId,omitempty"`
        UserID    string `json:"userId,omitempty"`
        Bucket    string `json:"bucket,omitempty"`
        AudioURL  string `json:"audioUrl"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    if req.AudioURL == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "audioUrl is required"})
        return
    }
    bucket := req.Bucket
    if bucket == "" {
        bucket = vh.audioUploadService.Bucket()
    }

    userID := parseOptionalUUID(req.UserID)
    if userID == nil {
        userID = callerUserID(c)
    }
    turn, err := vh.voicePipeline.ProcessVoice(
        c.Request.Context(),
        parseOptionalUUID(req.SessionID),
        userID,
        bucket,
        req.AudioURL,
    )
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, turn)
}
