package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/services"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/logger"
)

// ConversationView is the client-facing conversation shape: the actor's
// counterpart is redacted to its public profile, and the newest message (if
// any) rides along for list previews.
type ConversationView struct {
	ID               string                    `json:"id"`
	Status           models.ConversationStatus `json:"status"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
	OtherParticipant models.PublicUser         `json:"otherParticipant"`
	LastMessage      *models.Message           `json:"lastMessage"`
}

// formatConversation redacts a conversation for the given actor. Doctor
// actors see the patient side; everyone else (patients, admins) sees the
// doctor side. Doctor/Patient relations must be preloaded with profiles.
func formatConversation(conv *models.Conversation, actorRole models.Role, lastMessage *models.Message) ConversationView {
	var other models.PublicUser
	if actorRole == models.RoleDoctor {
		other = conv.Patient.Public()
	} else {
		other = conv.Doctor.Public()
	}

	return ConversationView{
		ID:               conv.ID,
		Status:           conv.Status,
		CreatedAt:        conv.CreatedAt,
		UpdatedAt:        conv.UpdatedAt,
		OtherParticipant: other,
		LastMessage:      lastMessage,
	}
}

// loadConversation fetches a conversation with both participants and their
// profiles preloaded
func loadConversation(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := database.DB.
		Preload("Doctor.DoctorProfile").
		Preload("Patient.PatientProfile").
		First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// lastMessages returns the newest message per conversation id in one query.
// The window rank bounds the result to one row per conversation, so an admin
// listing never pulls whole message histories.
func lastMessages(conversationIDs []string) map[string]*models.Message {
	out := make(map[string]*models.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out
	}

	newestPerConversation := `SELECT id FROM (
		SELECT id, ROW_NUMBER() OVER (PARTITION BY conversation_id ORDER BY created_at DESC, id DESC) AS rn
		FROM messages
		WHERE conversation_id IN ?
	) ranked WHERE rn = 1`

	var msgs []models.Message
	if err := database.DB.
		Where("id IN ("+newestPerConversation+")", conversationIDs).
		Find(&msgs).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to fetch conversation previews")
		return out
	}

	for i := range msgs {
		m := msgs[i]
		out[m.ConversationID] = &m
	}
	return out
}

type CreateConversationInput struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// CreateConversation starts (or returns) the conversation between the actor
// and the given counterpart. Creation is idempotent per (doctor, patient)
// pair: an existing conversation is returned instead of a duplicate, and the
// unique pair index converts a lost insert race into the same path.
func CreateConversation(c *gin.Context) {
	actorID, actorRole := actorFrom(c)

	var input CreateConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctorID, patientID string
	switch actorRole {
	case models.RoleDoctor:
		doctorID = actorID
		patientID = input.ParticipantID

		var patient models.User
		if err := database.DB.First(&patient, "id = ?", patientID).Error; err != nil || patient.Role != models.RolePatient {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
			return
		}
	case models.RolePatient:
		patientID = actorID
		doctorID = input.ParticipantID

		var doctor models.User
		if err := database.DB.First(&doctor, "id = ?", doctorID).Error; err != nil || doctor.Role != models.RoleDoctor {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Only doctors and patients can create conversations"})
		return
	}

	// Idempotent create: return the existing conversation for this pair
	var existing models.Conversation
	if err := database.DB.Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).First(&existing).Error; err == nil {
		respondWithConversation(c, actorID, actorRole, existing.ID, http.StatusCreated)
		return
	}

	conv := models.Conversation{
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    models.ConversationActive,
	}

	if err := database.DB.Create(&conv).Error; err != nil {
		// A concurrent create for the same pair may have won the race on the
		// unique index; fall back to the idempotent path.
		if err2 := database.DB.Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).First(&existing).Error; err2 == nil {
			respondWithConversation(c, actorID, actorRole, existing.ID, http.StatusCreated)
			return
		}
		logger.Error().Err(err).Msg("Failed to create conversation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	counterpart := "patient"
	if actorRole == models.RolePatient {
		counterpart = "doctor"
	}
	services.RecordAudit(services.AuditEntry{
		UserID:     actorID,
		Action:     models.ActionCreateConversation,
		EntityType: "Conversation",
		EntityID:   conv.ID,
		Details:    fmt.Sprintf("Created conversation with %s", counterpart),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	respondWithConversation(c, actorID, actorRole, conv.ID, http.StatusCreated)
}

// respondWithConversation reloads a conversation with participants and its
// newest message and writes the formatted view
func respondWithConversation(c *gin.Context, actorID string, actorRole models.Role, id string, status int) {
	conv, err := loadConversation(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}
	last := lastMessages([]string{conv.ID})[conv.ID]
	c.JSON(status, formatConversation(conv, actorRole, last))
}

// ListConversations returns the actor's conversations (all of them for an
// admin), most recently active first
func ListConversations(c *gin.Context) {
	actorID, actorRole := actorFrom(c)

	query := database.DB.
		Preload("Doctor.DoctorProfile").
		Preload("Patient.PatientProfile").
		Order("updated_at desc")

	switch actorRole {
	case models.RoleDoctor:
		query = query.Where("doctor_id = ?", actorID)
	case models.RolePatient:
		query = query.Where("patient_id = ?", actorID)
	case models.RoleAdmin:
		// Admin sees all conversations
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	ids := make([]string, 0, len(conversations))
	for i := range conversations {
		ids = append(ids, conversations[i].ID)
	}
	previews := lastMessages(ids)

	out := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		out = append(out, formatConversation(&conversations[i], actorRole, previews[conversations[i].ID]))
	}

	c.JSON(http.StatusOK, out)
}

// GetConversation returns one conversation, policy-checked. Successful reads
// are audited for the compliance trail.
func GetConversation(c *gin.Context) {
	actorID, actorRole := actorFrom(c)
	id := c.Param("id")

	conv, err := loadConversation(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if denied := services.CheckAccess(actorID, actorRole, conv); denied != nil {
		c.JSON(denied.Code, gin.H{"error": denied.Message})
		return
	}

	services.RecordAudit(services.AuditEntry{
		UserID:     actorID,
		Action:     models.ActionReadConversation,
		EntityType: "Conversation",
		EntityID:   conv.ID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	last := lastMessages([]string{conv.ID})[conv.ID]
	c.JSON(http.StatusOK, formatConversation(conv, actorRole, last))
}

type UpdateStatusInput struct {
	Status models.ConversationStatus `json:"status" binding:"required"`
}

// UpdateConversationStatus toggles ACTIVE/ARCHIVED. Either participant or an
// admin may transition in either direction.
func UpdateConversationStatus(c *gin.Context) {
	actorID, actorRole := actorFrom(c)
	id := c.Param("id")

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidConversationStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be ACTIVE or ARCHIVED"})
		return
	}

	conv, err := loadConversation(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if denied := services.CheckAccess(actorID, actorRole, conv); denied != nil {
		c.JSON(denied.Code, gin.H{"error": denied.Message})
		return
	}

	if err := database.DB.Model(conv).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update conversation"})
		return
	}

	services.RecordAudit(services.AuditEntry{
		UserID:     actorID,
		Action:     models.ActionUpdateConversationStatus,
		EntityType: "Conversation",
		EntityID:   conv.ID,
		Details:    fmt.Sprintf("Status changed to %s", input.Status),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	respondWithConversation(c, actorID, actorRole, conv.ID, http.StatusOK)
}
