package handlers

import (
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type EntryHandler struct {
    entryService services.EntryService
}

func NewEntryHandler(entryService services.EntryService) *EntryHandler {
    return &EntryHandler{entryService: entryService}
}

func (eh *EntryHandler) CreateEntry(c *gin.Context) {
    var req struct {
        UserID  string `json:"userId,omitempty"`
        Content string `json:"content"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }

    userID := parseOptionalUUID(req.UserID)
    if userID == nil {
        userID = callerUserID(c)
    }
    entry, err := eh.entryService.Create(c.Request.Context(), userID, req.Content)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (eh *EntryHandler) ListEntries(c *gin.Context) {
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
    entries, err := eh.entryService.ListRecent(c.Request.Context(), limit)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"entries": entries})
}
