package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sikandarmalik/healthcare-messaging-app/pkg/errors"
)

// Allowed attachment extensions and MIME types.
// Keep this list curated: attachments are medical documents and images only.
var allowedAttachmentExtensions = []string{
	".pdf",
	".jpg",
	".jpeg",
	".png",
}

var allowedAttachmentMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
}

// MaxAttachmentSize is the upload ceiling (5MB)
const MaxAttachmentSize = 5 * 1024 * 1024

// ValidateAttachment checks a multipart upload against the extension,
// MIME type and size allowlists. Validation runs before anything is written
// to disk or to the message ledger. Extension is checked first so a
// disallowed file type is rejected regardless of its declared MIME type.
func ValidateAttachment(file *multipart.FileHeader) *errors.AppError {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !attachmentExtensionAllowed(ext) {
		return errors.BadRequest(fmt.Sprintf(
			"File extension not allowed. Allowed types: %s",
			strings.Join(allowedAttachmentExtensions, ", "),
		))
	}

	mimeType := file.Header.Get("Content-Type")
	if !attachmentMimeTypeAllowed(mimeType) {
		return errors.BadRequest(fmt.Sprintf(
			"File MIME type not allowed. Allowed types: %s",
			strings.Join(allowedAttachmentMimeTypes, ", "),
		))
	}

	if file.Size > MaxAttachmentSize {
		return errors.BadRequest("File too large. Maximum size is 5MB")
	}

	return nil
}

func attachmentExtensionAllowed(ext string) bool {
	for _, allowed := range allowedAttachmentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func attachmentMimeTypeAllowed(mimeType string) bool {
	// Strip any parameters (e.g. "image/png; charset=binary")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))

	for _, allowed := range allowedAttachmentMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}
