package migrations

import (
	"gorm.io/gorm"
)

// Migration003AddHotPathIndexes adds indexes for the queries the polling
// client hits constantly. All indexes are idempotent (IF NOT EXISTS) for
// safe re-runs.
func Migration003AddHotPathIndexes() Migration {
	return Migration{
		ID:   "003_add_hot_path_indexes",
		Name: "Add indexes for message pagination and audit lookups",
		Up: func(db *gorm.DB) error {
			// Message pagination: WHERE conversation_id = ? AND created_at < ?
			// ORDER BY created_at DESC
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
				ON messages (conversation_id, created_at DESC)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			// Audit trail per entity: WHERE entity_type = ? AND entity_id = ?
			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_audit_entity
				ON audit_logs (entity_type, entity_id)
			`
			if err := db.Exec(idx2).Error; err != nil {
				return err
			}

			// Audit trail per user: WHERE user_id = ? ORDER BY timestamp DESC
			idx3 := `
				CREATE INDEX IF NOT EXISTS idx_audit_user_time
				ON audit_logs (user_id, timestamp DESC)
			`
			return db.Exec(idx3).Error
		},
	}
}
