package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/moodmate-org/moodmate-backend/internal/handlers"
  "github.com/moodmate-org/moodmate-backend/internal/middleware"
)

type RouterConfig struct {
  IdentityMiddleware    *middleware.IdentityMiddleware
  ChatHandler           *handlers.ChatHandler
  AssistantHandler      *handlers.AssistantHandler
  VoiceHandler          *handlers.VoiceHandler
  AudioHandler          *handlers.AudioHandler
  SessionHandler        *handlers.SessionHandler
  EntryHandler          *handlers.EntryHandler
  EmotionHandler        *handlers.EmotionHandler
  MusicLogHandler       *handlers.MusicLogHandler
  SelfieHandler         *handlers.SelfieHandler
  WsHandler             gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "https://moodmate.app",
      "https://www.moodmate.app",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // API Routes
  //-----------------------------------------
  api := router.Group("/api")
  api.Use(cfg.IdentityMiddleware.Identify())

  api.GET("/ws", cfg.WsHandler)

  // Chat
  api.POST("/chat", cfg.ChatHandler.SendMessage)
  api.POST("/assistant", cfg.AssistantHandler.Ask)

  // Voice
  api.POST("/voice", cfg.VoiceHandler.ProcessVoice)
  api.POST("/audio/upload", cfg.AudioHandler.Upload)
  api.POST("/analyze-audio", cfg.AudioHandler.Analyze)
  api.GET("/audio/analyses", cfg.AudioHandler.ListAnalyses)

  // Sessions
  api.GET("/sessions", cfg.SessionHandler.ListSessions)
  api.GET("/sessions/:id", cfg.SessionHandler.GetMessages)
  api.GET("/sessions/:id/analysis", cfg.SessionHandler.GetMoodBreakdown)
  api.GET("/chat-analysis", cfg.SessionHandler.ChatAnalysis)

  // Journal entries
  api.POST("/entries", cfg.EntryHandler.CreateEntry)
  api.GET("/entries", cfg.EntryHandler.ListEntries)

  // Face emotion
  api.POST("/emotion", cfg.EmotionHandler.Detect)
  api.POST("/emotion/upload", cfg.EmotionHandler.DetectAndLog)
  api.GET("/emotion/logs", cfg.EmotionHandler.ListLogs)

  // Selfies
  api.POST("/selfie", cfg.SelfieHandler.CreateLog)
  api.POST("/selfie/analyze", cfg.SelfieHandler.Analyze)
  api.GET("/selfie", cfg.SelfieHandler.ListLogs)

  // Music
  api.POST("/musiclogs", cfg.MusicLogHandler.CreateLog)
  api.GET("/musiclogs", cfg.MusicLogHandler.ListLogs)
  api.GET("/musiclogs/logs", cfg.MusicLogHandler.CombinedLogs)
  api.DELETE("/musiclogs/:id", cfg.MusicLogHandler.DeleteLog)
  api.GET("/youtube", cfg.MusicLogHandler.SearchVideos)

  return router
}
