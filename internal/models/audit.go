package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionCreateConversation       AuditAction = "CREATE_CONVERSATION"
	ActionReadConversation         AuditAction = "READ_CONVERSATION"
	ActionUpdateConversationStatus AuditAction = "UPDATE_CONVERSATION_STATUS"
	ActionSendMessage              AuditAction = "SEND_MESSAGE"
)

// AuditLog is a write-once compliance record. The application never updates
// or deletes rows; test fixtures may bulk-clear the table.
type AuditLog struct {
	ID         string      `gorm:"primaryKey;type:text" json:"id"`
	UserID     string      `gorm:"type:text;not null;index:idx_audit_user_time" json:"userId"`
	Action     AuditAction `gorm:"type:text;not null" json:"action"`
	EntityType string      `gorm:"type:text;not null;index:idx_audit_entity" json:"entityType"`
	EntityID   string      `gorm:"type:text;not null;index:idx_audit_entity" json:"entityId"`
	Details    string      `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	UserAgent  string      `json:"userAgent,omitempty"`
	Timestamp  time.Time   `gorm:"index:idx_audit_user_time" json:"timestamp"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
