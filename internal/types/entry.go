package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Entry is a free-form journal entry with a derived mood label.
type Entry struct {
  gorm.Model

  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      *uuid.UUID        `gorm:"index;null" json:"userID,omitempty"`
  Content     string            `gorm:"not null;column:content" json:"content"`
  Mood        string            `gorm:"column:mood" json:"mood"`
  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Entry) TableName() string {
  return "entry"
}
