package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID for record identifiers
func GenerateID() string {
	return uuid.New().String()
}

// GenerateConsentRequestID generates a unique consent request ID
func GenerateConsentRequestID() string {
	return "CRQ-" + uuid.New().String()
}

// GenerateIdentityID generates a unique provided identity ID
func GenerateIdentityID() string {
	return "IDN-" + uuid.New().String()
}

// GeneratePreferenceHistoryID generates a unique privacy preference history ID
func GeneratePreferenceHistoryID() string {
	return "PRH-" + uuid.New().String()
}

// GenerateCurrentPreferenceID generates a unique current privacy preference ID
func GenerateCurrentPreferenceID() string {
	return "CUR-" + uuid.New().String()
}

// GeneratePrivacyRequestID generates a unique privacy request ID
func GeneratePrivacyRequestID() string {
	return "PRI-" + uuid.New().String()
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
