package handlers

import (
    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/moodmate-org/moodmate-backend/internal/requestdata"
)

// parseOptionalUUID turns a possibly-empty string into a *uuid.UUID. Invalid
// strings are treated the same as absent ones; the session resolver heals
// both cases.
func parseOptionalUUID(s string) *uuid.UUID {
    if s == "" {
        return nil
    }
    id, err := uuid.Parse(s)
    if err != nil {
        return nil
    }
    return &id
}

// callerUserID reads the authenticated user from the request context, when
// the identity middleware attached one.
func callerUserID(c *gin.Context) *uuid.UUID {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
        return nil
    }
    id := rd.UserID
    return &id
}
