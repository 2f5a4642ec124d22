package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddConversationPairUnique enforces at most one conversation
// per (doctor, patient) pair at the storage layer. The create endpoint does
// a check-then-insert; without this index two concurrent creates for the
// same pair could both insert. AutoMigrate creates the index from the model
// tag on fresh databases, this keeps existing deployments honest.
func Migration002AddConversationPairUnique() Migration {
	return Migration{
		ID:   "002_add_conversation_pair_unique",
		Name: "Add unique index on conversations (doctor_id, patient_id)",
		Up: func(db *gorm.DB) error {
			idx := `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_pair
				ON conversations (doctor_id, patient_id)
			`
			return db.Exec(idx).Error
		},
	}
}
