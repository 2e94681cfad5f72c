package handlers

import (
    "io"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type EmotionHandler struct {
    faceEmotionService services.FaceEmotionService
}

func NewEmotionHandler(faceEmotionService services.FaceEmotionService) *EmotionHandler {
    return &EmotionHandler{faceEmotionService: faceEmotionService}
}

func (eh *EmotionHandler) Detect(c *gin.Context) {
    photo, filename, ok := readPhoto(c)
    if !ok {
        return
    }
    result, err := eh.faceEmotionService.Detect(c.Request.Context(), photo, filename)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, result)
}

func (eh *EmotionHandler) DetectAndLog(c *gin.Context) {
    photo, filename, ok := readPhoto(c)
    if !ok {
        return
    }
    result, flog, err := eh.faceEmotionService.DetectAndLog(c.Request.Context(), photo, filename)
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "result": result,
        "log":    flog,
    })
}

func (eh *EmotionHandler) ListLogs(c *gin.Context) {
    logs, err := eh.faceEmotionService.ListLogs(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func readPhoto(c *gin.Context) ([]byte, string, bool) {
    fileHeader, err := c.FormFile("photo")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
        return nil, "", false
    }
    f, err := fileHeader.Open()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open photo"})
        return nil, "", false
    }
    defer f.Close()
    data, err := io.ReadAll(f)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
        return nil, "", false
    }
    return data, fileHeader.Filename, true
}
