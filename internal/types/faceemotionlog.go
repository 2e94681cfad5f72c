package types

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// FaceEmotionLog stores the raw response of the face-emotion API for a single
// detection, as returned upstream.
type FaceEmotionLog struct {
  gorm.Model

  ID            uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  APIResponse   datatypes.JSON    `gorm:"column:api_response" json:"apiResponse"`
  CreatedAt     time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt     time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (FaceEmotionLog) TableName() string {
  return "face_emotion_log"
}
