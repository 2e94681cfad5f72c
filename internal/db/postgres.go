package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/types"
  "github.com/moodmate-org/moodmate-backend/internal/utils"
  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Get and Set Environment Variables
  log.Info("Attempting to load environment variables for Postgres now...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "moodmate", log)
  log.Debug("Environment variables loaded for Postgres",
    "host", postgresHost,
    "port", postgresPort,
    "user", postgresUser,
    "dbname", postgresName,
  )
  log.Info("Environment variables loaded for Postgres :)")

  //2) Construct DSN From Environment Variables
  log.Info("Attempting to construct DSN from environment variables for Postgres now...")
  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  //3) Attempt DB Connection
  log.Info("Attempting to connect to Postgres DB now...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres DB: %w", err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  //4) Enable uuid-ossp Extension
  log.Debug("Attempting to enable uuid-ossp extension now...")
  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension :(", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled or already exists :)")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.Session{},
    &types.Message{},
    &types.Entry{},
    &types.MusicLog{},
    &types.FaceEmotionLog{},
    &types.SelfieLog{},
    &types.AudioAnalysis{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed for Base Tables :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully for Base Tables :)")

  s.log.Info("Configuring Foreign Key Relationships for Base Tables now...")
  // -- Session.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "session"
      ADD CONSTRAINT "fk_session_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_session_user_id: %w", err)
  }
  // -- Message.session_id => session.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "message"
      ADD CONSTRAINT "fk_message_session_id"
      FOREIGN KEY ("session_id")
      REFERENCES "session"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_message_session_id: %w", err)
  }
  // -- Entry.user_id => user.id (ON DELETE SET NULL)
  if err := s.db.Exec(`
      ALTER TABLE "entry"
      ADD CONSTRAINT "fk_entry_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE SET NULL
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_entry_user_id: %w", err)
  }
  // -- SelfieLog.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "selfie_log"
      ADD CONSTRAINT "fk_selfie_log_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_selfie_log_user_id: %w", err)
  }
  // -- AudioAnalysis.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "audio_analysis"
      ADD CONSTRAINT "fk_audio_analysis_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("failed to add fk_audio_analysis_user_id: %w", err)
  }
  s.log.Info("Successfully Added Foreign Key Relationships to Base Tables :)")

  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
