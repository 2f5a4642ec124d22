package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "ACTIVE"
	ConversationArchived ConversationStatus = "ARCHIVED"
)

// IsValidConversationStatus checks a client-supplied status value
func IsValidConversationStatus(s ConversationStatus) bool {
	return s == ConversationActive || s == ConversationArchived
}

// Conversation is a thread between exactly one doctor and one patient.
// The composite unique index makes the pair uniqueness a storage-level
// invariant so a concurrent check-then-create cannot produce duplicates.
type Conversation struct {
	ID        string             `gorm:"primaryKey;type:text" json:"id"`
	DoctorID  string             `gorm:"type:text;not null;uniqueIndex:idx_conversations_pair" json:"doctorId"`
	PatientID string             `gorm:"type:text;not null;uniqueIndex:idx_conversations_pair" json:"patientId"`
	Status    ConversationStatus `gorm:"type:text;default:'ACTIVE';not null" json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	// Relations
	Doctor   User      `gorm:"foreignKey:DoctorID" json:"-"`
	Patient  User      `gorm:"foreignKey:PatientID" json:"-"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
