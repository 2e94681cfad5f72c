package types

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

const (
  MessageRoleUser       = "user"
  MessageRoleAssistant  = "assistant"
)

// Message rows are append-only; nothing in the codebase updates content in place.
type Message struct {
  gorm.Model

  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SessionID   uuid.UUID         `gorm:"index" json:"sessionID"`
  Role        string            `gorm:"column:role" json:"role"`
  Content     string            `gorm:"column:content" json:"content"`
  Embedding   datatypes.JSON    `gorm:"column:embedding" json:"-"`
  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Message) TableName() string {
  return "message"
}
