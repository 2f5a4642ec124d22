package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

// sanitize.go - Input sanitization utilities for security

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._ -]`)

// SanitizeFilename strips path components and unsafe characters from a
// client-supplied file name before it is stored as an attachment name
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return TruncateString(name, 255)
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
