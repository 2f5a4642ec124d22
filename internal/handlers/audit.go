package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/services"
)

type auditActorView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type auditLogView struct {
	ID         string             `json:"id"`
	Action     models.AuditAction `json:"action"`
	EntityType string             `json:"entityType"`
	EntityID   string             `json:"entityId"`
	Details    string             `json:"details,omitempty"`
	IPAddress  string             `json:"ipAddress,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	User       auditActorView     `json:"user"`
}

// GetEntityAuditLogs returns the compliance trail of one entity, newest
// first, with the acting user identified. Admin only (route-gated).
func GetEntityAuditLogs(c *gin.Context) {
	entityType := c.Param("entityType")
	entityID := c.Param("entityId")

	logs, err := services.GetLogsForEntity(entityType, entityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	out := make([]auditLogView, 0, len(logs))
	for i := range logs {
		entry := &logs[i]
		out = append(out, auditLogView{
			ID:         entry.ID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Details:    entry.Details,
			IPAddress:  entry.IPAddress,
			Timestamp:  entry.Timestamp,
			User: auditActorView{
				ID:    entry.User.ID,
				Email: entry.User.Email,
				Role:  entry.User.Role,
			},
		})
	}

	c.JSON(http.StatusOK, out)
}

// GetUserAuditLogs returns a user's recent actions, newest first, bounded by
// the limit query parameter (default 50). Admin only (route-gated).
func GetUserAuditLogs(c *gin.Context) {
	userID := c.Param("userId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	logs, err := services.GetLogsForUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
