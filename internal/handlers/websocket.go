package handlers

import (
    "context"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/gorilla/websocket"

    "github.com/moodmate-org/moodmate-backend/internal/logger"
    "github.com/moodmate-org/moodmate-backend/internal/socket"
)

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        return true
    },
}

// WsHandler upgrades the connection and leaves channel membership to the
// client, which subscribes to "chat:<sessionID>" or "logs" as needed.
func WsHandler(hub *socket.Hub, log *logger.Logger) gin.HandlerFunc {
    return func(c *gin.Context) {
        conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
        if err != nil {
            log.Warn("Failed to upgrade to websocket", "error", err)
            return
        }
        ctx, cancel := context.WithCancel(context.Background())
        client := socket.NewClient(conn, hub, uuid.New(), cancel, log)

        if id := callerUserID(c); id != nil {
            hub.Subscribe(client, []string{"user:" + id.String()})
        }

        go client.ReadLoop(ctx)
        go client.WriteLoop(ctx)
    }
}
