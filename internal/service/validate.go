package service

import (
	"strings"
	"unicode/utf8"
)

// validateUserData checks the mutable user fields in a fixed order, first
// failure wins. Callers normalize afterwards; nothing is trimmed here.
// Length minimums count characters, not bytes.
func validateUserData(name, email string) *ValidationError {
	if name == "" || email == "" {
		return &ValidationError{Reason: "Name and email are required"}
	}

	if !strings.Contains(email, "@") {
		return &ValidationError{Reason: "Invalid email format"}
	}

	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return &ValidationError{Reason: "Name must be at least 2 characters"}
	}

	return nil
}

// normalizeEmail trims and lower-cases an email before storage or lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
