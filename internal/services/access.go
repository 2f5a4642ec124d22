package services

import (
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
	"github.com/sikandarmalik/healthcare-messaging-app/pkg/errors"
)

// CheckAccess is the access-control gate invoked before every read or write
// that touches a conversation or its messages. It is pure and deterministic:
// admins are always allowed, doctors and patients only when they are a party
// to the conversation.
func CheckAccess(actorID string, role models.Role, conversation *models.Conversation) *errors.AppError {
	if role == models.RoleAdmin {
		return nil
	}

	if conversation.DoctorID != actorID && conversation.PatientID != actorID {
		return errors.Forbidden("You are not authorized to access this conversation")
	}

	return nil
}
