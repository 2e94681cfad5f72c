package types

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type AudioAnalysis struct {
  gorm.Model

  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID         `gorm:"index" json:"userID"`
  Transcript  string            `gorm:"column:transcript" json:"transcript"`
  Sentiment   datatypes.JSON    `gorm:"column:sentiment" json:"sentiment"`
  Reply       string            `gorm:"column:reply" json:"reply"`
  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (AudioAnalysis) TableName() string {
  return "audio_analysis"
}
