package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/config"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/database"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/services"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/logger"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/utils"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// MessageSenderView identifies who wrote a message, with the display name
// resolved from the role-matching profile
type MessageSenderView struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	FullName string      `json:"fullName"`
}

// MessageView is the client-facing message shape
type MessageView struct {
	ID             string            `json:"id"`
	Content        string            `json:"content"`
	AttachmentURL  string            `json:"attachmentUrl,omitempty"`
	AttachmentName string            `json:"attachmentName,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	ReadAt         *time.Time        `json:"readAt"`
	Sender         MessageSenderView `json:"sender"`
	IsOwnMessage   bool              `json:"isOwnMessage"`
}

func formatMessage(msg *models.Message, actorID string) MessageView {
	return MessageView{
		ID:             msg.ID,
		Content:        msg.Content,
		AttachmentURL:  msg.AttachmentURL,
		AttachmentName: msg.AttachmentName,
		CreatedAt:      msg.CreatedAt,
		ReadAt:         msg.ReadAt,
		Sender: MessageSenderView{
			ID:       msg.Sender.ID,
			Email:    msg.Sender.Email,
			Role:     msg.Sender.Role,
			FullName: msg.Sender.FullName(),
		},
		IsOwnMessage: msg.SenderID == actorID,
	}
}

// conversationForAccess fetches the parent conversation and runs the access
// policy. Writes the error response and returns nil when the actor may not
// proceed.
func conversationForAccess(c *gin.Context, conversationID string) *models.Conversation {
	actorID, actorRole := actorFrom(c)

	var conv models.Conversation
	if err := database.DB.First(&conv, "id = ?", conversationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return nil
	}

	if denied := services.CheckAccess(actorID, actorRole, &conv); denied != nil {
		c.JSON(denied.Code, gin.H{"error": denied.Message})
		return nil
	}

	return &conv
}

// ListMessages returns up to `limit` messages older than `before` (when
// supplied), chronologically ascending. The query fetches newest-first and
// reverses so "load older on scroll" pagination still renders oldest-to-newest.
func ListMessages(c *gin.Context) {
	actorID, _ := actorFrom(c)
	conversationID := c.Param("id")

	if conversationForAccess(c, conversationID) == nil {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessageLimit)))
	if err != nil || limit < 1 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	query := database.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Preload("Sender.DoctorProfile").
		Preload("Sender.PatientProfile")

	if before := c.Query("before"); before != "" {
		cursor, err := time.Parse(time.RFC3339, before)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC 3339 timestamp"})
			return
		}
		query = query.Where("created_at < ?", cursor)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Reverse into chronological order
	out := make([]MessageView, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		out = append(out, formatMessage(&messages[i], actorID))
	}

	c.JSON(http.StatusOK, out)
}

type CreateMessageInput struct {
	Content string `json:"content"`
}

// SendMessage appends a text message to the conversation ledger
func SendMessage(c *gin.Context) {
	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createMessage(c, input.Content, nil)
}

// SendMessageWithAttachment accepts multipart content + file. The file is
// validated (extension, MIME type, size) and persisted before any message row
// is written; a rejected upload aborts message creation entirely.
func SendMessageWithAttachment(c *gin.Context) {
	content := c.PostForm("content")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Attachment file is required"})
		return
	}

	if err := ValidateAttachment(file); err != nil {
		c.JSON(err.Code, gin.H{"error": err.Message})
		return
	}

	// Policy-check before anything touches the disk; createMessage re-checks,
	// but a denied request must not leave an orphaned upload behind.
	if conversationForAccess(c, c.Param("id")) == nil {
		return
	}

	uploadsDir := config.AppConfig.UploadsDir
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", uploadsDir).Msg("Failed to create uploads directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	storedName := utils.GenerateID() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(uploadsDir, storedName)); err != nil {
		logger.Error().Err(err).Msg("Failed to store attachment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
		return
	}

	attachment := &models.Attachment{
		URL:  "/uploads/" + storedName,
		Name: utils.SanitizeFilename(file.Filename),
	}

	createMessage(c, content, attachment)
}

// createMessage is the shared append path: policy check, non-empty content
// (unless an attachment is present), row creation, conversation bump, audit.
func createMessage(c *gin.Context, content string, attachment *models.Attachment) {
	actorID, _ := actorFrom(c)
	conversationID := c.Param("id")

	conv := conversationForAccess(c, conversationID)
	if conv == nil {
		return
	}

	// Per-user send cap on top of the per-IP limiter. Fails open so a Redis
	// outage never blocks messaging, same stance as the token blacklist.
	allowed, err := database.CheckRateLimit(actorID, 30, time.Minute)
	if err != nil {
		logger.Error().Err(err).Str("user_id", actorID).Msg("Rate limit check failed")
	} else if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "You're sending messages too fast. Please slow down."})
		return
	}

	if strings.TrimSpace(content) == "" && attachment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content cannot be empty"})
		return
	}

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       actorID,
		Content:        content,
	}
	if attachment != nil {
		msg.AttachmentURL = attachment.URL
		msg.AttachmentName = attachment.Name
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to send message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Bump the conversation so it sorts to the top of the list
	if err := database.DB.Model(conv).Update("updated_at", time.Now()).Error; err != nil {
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to bump conversation")
	}

	services.RecordAudit(services.AuditEntry{
		UserID:     actorID,
		Action:     models.ActionSendMessage,
		EntityType: "Message",
		EntityID:   msg.ID,
		Details:    fmt.Sprintf("Sent message in conversation %s", conversationID),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	if err := database.DB.
		Preload("Sender.DoctorProfile").
		Preload("Sender.PatientProfile").
		First(&msg, "id = ?", msg.ID).Error; err != nil {
		logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to reload message after create")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, formatMessage(&msg, actorID))
}

// MarkMessageAsRead sets a message's read receipt. Senders marking their own
// message are a no-op; an already-set receipt is never overwritten.
func MarkMessageAsRead(c *gin.Context) {
	actorID, _ := actorFrom(c)
	messageID := c.Param("messageId")

	var msg models.Message
	if err := database.DB.
		Preload("Sender.DoctorProfile").
		Preload("Sender.PatientProfile").
		First(&msg, "id = ?", messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if conversationForAccess(c, msg.ConversationID) == nil {
		return
	}

	if msg.SenderID != actorID && msg.ReadAt == nil {
		now := time.Now()
		if err := database.DB.Model(&msg).Update("read_at", &now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark message as read"})
			return
		}
		msg.ReadAt = &now
	}

	c.JSON(http.StatusOK, formatMessage(&msg, actorID))
}

// MarkConversationAsRead bulk-sets read receipts for every unread message in
// the conversation authored by someone other than the actor. Idempotent.
func MarkConversationAsRead(c *gin.Context) {
	actorID, _ := actorFrom(c)
	conversationID := c.Param("id")

	if conversationForAccess(c, conversationID) == nil {
		return
	}

	result := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read_at IS NULL", conversationID, actorID).
		Update("read_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark conversation as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
