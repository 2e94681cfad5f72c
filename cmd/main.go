package main

import (
  "fmt"
  "os"

  "github.com/redis/go-redis/v9"

  "github.com/moodmate-org/moodmate-backend/internal/db"
  "github.com/moodmate-org/moodmate-backend/internal/handlers"
  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/middleware"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/seed"
  "github.com/moodmate-org/moodmate-backend/internal/server"
  "github.com/moodmate-org/moodmate-backend/internal/services"
  "github.com/moodmate-org/moodmate-backend/internal/socket"
  "github.com/moodmate-org/moodmate-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "localhost:6379", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  log.Debug("Environment variables loaded for Main :)",
    "redisAddress", redisAddress,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  sessionRepo := repos.NewSessionRepo(thePG, log)
  messageRepo := repos.NewMessageRepo(thePG, log)
  entryRepo := repos.NewEntryRepo(thePG, log)
  musicLogRepo := repos.NewMusicLogRepo(thePG, log)
  faceEmotionLogRepo := repos.NewFaceEmotionLogRepo(thePG, log)
  selfieLogRepo := repos.NewSelfieLogRepo(thePG, log)
  audioAnalysisRepo := repos.NewAudioAnalysisRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Websocket Setup
  log.Info("Setting Up Websocket Hub From Main Now :)")
  wsHub := socket.NewHub(log)
  log.Info("Websocket Hub Set Up From Main Successful :)")

  // Redis PubSub
  log.Info("Setting Up Redis PubSub From Main Now :)")
  redisChanName := "moodmate_hub_broadcast"
  redisPubSub, err := socket.NewRedisPubSub(log, redisAddress, redisPassword, redisChanName)
  if err != nil {
    log.Warn("Failed to init redis pubsub", "error", err)
    redisPubSub = nil
  } else {
    if err := redisPubSub.StartSubscriber(wsHub); err != nil {
      log.Warn("Failed to subscribe to Redis pub/sub", "error", err)
    } else {
      wsHub.SetRedisPubSub(redisPubSub)
      log.Info("Redis pubsub is active!")
    }
  }

  // Services Setup
  log.Info("Setting up Services from Main now...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init BucketService", "error", err)
    os.Exit(1)
  }
  geminiService, err := services.NewGeminiService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init GeminiService", "error", err)
    os.Exit(1)
  }
  transcriptionService, err := services.NewDeepgramService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init TranscriptionService", "error", err)
    os.Exit(1)
  }

  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Warn("Could not init EmailService", "error", err)
  }
  textService, err := services.NewTextService(log)
  if err != nil {
    log.Warn("Could not init TextService", "error", err)
  }
  emotionService, err := services.NewLuxandService(log)
  if err != nil {
    log.Warn("Could not init LuxandService", "error", err)
  }
  avatarService, err := services.NewAvatarService(log, bucketService)
  if err != nil {
    log.Warn("Could not init AvatarService", "error", err)
    avatarService = nil
  }
  audioAnalysisService, err := services.NewAudioAnalysisService(thePG, log, geminiService, audioAnalysisRepo)
  if err != nil {
    log.Warn("Could not init AudioAnalysisService", "error", err)
    audioAnalysisService = nil
  }

  var redisClient *redis.Client
  if redisPubSub != nil {
    redisClient = redisPubSub.Client()
  }
  videoSearchService, err := services.NewVideoSearchService(log, redisClient)
  if err != nil {
    log.Warn("Could not init VideoSearchService", "error", err)
    videoSearchService = nil
  }

  resolver := services.NewSessionResolver(thePG, log, userRepo, sessionRepo, avatarService)
  notifierService := services.NewNotifierService(log, emailService, textService)
  chatService := services.NewChatService(thePG, log, resolver, messageRepo, geminiService, notifierService, wsHub)
  assistantService := services.NewAssistantService(thePG, log, resolver, messageRepo, geminiService)
  voicePipeline := services.NewVoicePipeline(log, bucketService, transcriptionService, chatService)
  audioUploadService := services.NewAudioUploadService(log, bucketService)
  entryService := services.NewEntryService(thePG, log, entryRepo)
  musicLogService := services.NewMusicLogService(thePG, log, musicLogRepo, wsHub)
  faceEmotionService := services.NewFaceEmotionService(thePG, log, emotionService, faceEmotionLogRepo)
  selfieService := services.NewSelfieService(thePG, log, bucketService, emotionService, selfieLogRepo)
  log.Info("Services Set Up From Main Successful :)")

  // Seed Setup
  log.Info("Attempting to Seed The Postgres From Main now...")
  if err := seed.SeedAll(thePG, resolver); err != nil {
    log.Warn("Failed to seed data :(", "error", err)
  }
  log.Info("Seeding of Postgres From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  chatHandler := handlers.NewChatHandler(chatService)
  assistantHandler := handlers.NewAssistantHandler(assistantService)
  voiceHandler := handlers.NewVoiceHandler(voicePipeline, audioUploadService)
  audioHandler := handlers.NewAudioHandler(audioUploadService, audioAnalysisService, bucketService, resolver)
  sessionHandler := handlers.NewSessionHandler(sessionRepo, messageRepo)
  entryHandler := handlers.NewEntryHandler(entryService)
  emotionHandler := handlers.NewEmotionHandler(faceEmotionService)
  musicLogHandler := handlers.NewMusicLogHandler(musicLogService, videoSearchService, faceEmotionService)
  selfieHandler := handlers.NewSelfieHandler(selfieService, resolver)
  wsHandler := handlers.WsHandler(wsHub, log)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  identityMiddleware := middleware.NewIdentityMiddleware(log)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    IdentityMiddleware: identityMiddleware,
    ChatHandler:        chatHandler,
    AssistantHandler:   assistantHandler,
    VoiceHandler:       voiceHandler,
    AudioHandler:       audioHandler,
    SessionHandler:     sessionHandler,
    EntryHandler:       entryHandler,
    EmotionHandler:     emotionHandler,
    MusicLogHandler:    musicLogHandler,
    SelfieHandler:      selfieHandler,
    WsHandler:          wsHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }

  // On Shutdown
  if redisPubSub != nil {
    redisPubSub.Stop()
  }
}
