package types

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type SelfieLog struct {
  gorm.Model

  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID         `gorm:"index" json:"userID"`
  ImageURL        string            `gorm:"not null;column:image_url" json:"imageURL"`
  Emotion         string            `gorm:"index;column:emotion" json:"emotion"`
  EmotionScores   datatypes.JSON    `gorm:"column:emotion_scores" json:"emotionScores"`
  Summary         string            `gorm:"column:summary" json:"summary"`
  StorageBucket   string            `gorm:"column:storage_bucket" json:"storageBucket"`
  StoragePath     string            `gorm:"column:storage_path" json:"storagePath"`
  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (SelfieLog) TableName() string {
  return "selfie_log"
}
