package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateConsentRequestID validates consent request ID format
func ValidateConsentRequestID(consentRequestID string) error {
	if consentRequestID == "" {
		return fmt.Errorf("consent request ID cannot be empty")
	}
	if len(consentRequestID) > 255 {
		return fmt.Errorf("consent request ID too long (max 255 characters)")
	}
	return nil
}

// ValidateNoticeHistoryID validates privacy notice history ID format
func ValidateNoticeHistoryID(noticeHistoryID string) error {
	if noticeHistoryID == "" {
		return fmt.Errorf("privacy notice history ID cannot be empty")
	}
	if len(noticeHistoryID) > 255 {
		return fmt.Errorf("privacy notice history ID too long (max 255 characters)")
	}
	return nil
}

// ValidatePreference validates a user consent preference value
func ValidatePreference(preference string) error {
	if preference == "" {
		return fmt.Errorf("preference cannot be empty")
	}

	validPreferences := map[string]bool{
		"opt_in":      true,
		"opt_out":     true,
		"acknowledge": true,
	}

	if !validPreferences[preference] {
		return fmt.Errorf("invalid preference: %s", preference)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// SanitizeString removes dangerous characters from user input
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	// Trim whitespace
	input = strings.TrimSpace(input)
	return input
}

// ValidatePageSize validates pagination page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 50 // Default size
	}
	if size > 100 {
		return 100 // Max size
	}
	return size
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength validates maximum string length
func ValidateMaxLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLength)
	}
	return nil
}

// IsAlphanumeric checks if a string contains only alphanumeric characters
func IsAlphanumeric(s string) bool {
	for _, char := range s {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}
