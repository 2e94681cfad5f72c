package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/moodmate-org/moodmate-backend/internal/services"
)

type AssistantHandler struct {
    assistantService services.AssistantService
}

func NewAssistantHandler(assistantService services.AssistantService) *AssistantHandler {
    return &AssistantHandler{assistantService: assistantService}
}

func (ah *AssistantHandler) Ask(c *gin.Context) {
    var req struct {
        SessionID string `json:"sessionId,omitempty"`
        UserID    string `json:"userId,omitempty"`
        Message   string `json:"message"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    if req.Message == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
        return
    }

    userID := parseOptionalUUID(req.UserID)
    if userID == nil {
        userID = callerUserID(c)
    }
    reply, sessionID, err := ah.assistantService.Ask(
        c.Request.Context(),
        parseOptionalUUID(req.SessionID),
        userID,
        req.Message,
    )
    if err != nil {
        c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "reply":     reply,
        "sessionId": sessionID,
    })
}
