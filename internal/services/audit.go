package services

import (
	"time"

	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/logger"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/utils"
)

const maxAuditDetailsLen = 1024

// AuditEntry describes a single mutating (or compliance-relevant) action
type AuditEntry struct {
	UserID     string
	Action     models.AuditAction
	EntityType string
	EntityID   string
	Details    string
	IPAddress  string
	UserAgent  string
}

// RecordAudit appends one entry to the audit trail. Writes are best-effort:
// a failed write is logged but never fails the business operation it
// accompanies.
func RecordAudit(entry AuditEntry) {
	row := models.AuditLog{
		ID:         utils.GenerateID(),
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    utils.TruncateString(entry.Details, maxAuditDetailsLen),
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Timestamp:  time.Now(),
	}

	if err := database.DB.Create(&row).Error; err != nil {
		logger.Error().
			Err(err).
			Str("action", string(entry.Action)).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("Failed to write audit log entry")
	}
}

// GetLogsForEntity returns the audit trail of one entity, newest first,
// with the acting user preloaded
func GetLogsForEntity(entityType, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := database.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp desc").
		Preload("User").
		Find(&logs).Error
	return logs, err
}

// GetLogsForUser returns a user's recent actions, newest first, bounded by limit
func GetLogsForUser(userID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.AuditLog
	err := database.DB.
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
