package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a validated reference to a file stored outside the ledger
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Message is an append-only row in a conversation's ledger. Content may be
// empty only when an attachment is present. ReadAt is set at most once, and
// never by the sender.
type Message struct {
	ID             string     `gorm:"primaryKey;type:text" json:"id"`
	ConversationID string     `gorm:"type:text;not null;index:idx_messages_conversation_created" json:"conversationId"`
	SenderID       string     `gorm:"type:text;not null;index" json:"senderId"`
	Content        string     `gorm:"type:text" json:"content"`
	AttachmentURL  string     `json:"attachmentUrl,omitempty"`
	AttachmentName string     `json:"attachmentName,omitempty"`
	CreatedAt      time.Time  `gorm:"index:idx_messages_conversation_created" json:"createdAt"`
	ReadAt         *time.Time `json:"readAt"`

	// Relations
	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
