package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

type MusicLog struct {
  gorm.Model

  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Emotion     string            `gorm:"index;not null;column:emotion" json:"emotion"`
  Weather     string            `gorm:"index;not null;column:weather" json:"weather"`
  SongTitle   string            `gorm:"not null;column:song_title" json:"song_title"`
  SongID      string            `gorm:"not null;column:song_id" json:"song_id"`
  PlayedAt    time.Time         `gorm:"not null;default:now();column:played_at" json:"played_at"`
  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (MusicLog) TableName() string {
  return "music_log"
}
