package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddMessageCascadeFK makes message rows follow their
// conversation on delete. Conversations own their messages; a dangling
// message row must not survive its conversation.
func Migration001AddMessageCascadeFK() Migration {
	return Migration{
		ID:   "001_add_message_cascade_fk",
		Name: "Re-point messages.conversation_id FK with ON DELETE CASCADE",
		Up: func(db *gorm.DB) error {
			drop := `
				ALTER TABLE messages
				DROP CONSTRAINT IF EXISTS fk_conversations_messages
			`
			if err := db.Exec(drop).Error; err != nil {
				return err
			}

			add := `
				ALTER TABLE messages
				ADD CONSTRAINT fk_conversations_messages
				FOREIGN KEY (conversation_id) REFERENCES conversations (id)
				ON DELETE CASCADE
			`
			return db.Exec(add).Error
		},
	}
}
