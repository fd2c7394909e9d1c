package models

// ProvidedIdentity represents the PROVIDED_IDENTITY table. An identifier
// (typically an email) a subject supplied when opening a consent session.
// Immutable once created.
type ProvidedIdentity struct {
	IdentityID       string  `db:"IDENTITY_ID" json:"identityId"`
	FieldName        string  `db:"FIELD_NAME" json:"fieldName"`
	FieldValue       *string `db:"FIELD_VALUE" json:"fieldValue,omitempty"`
	HashedValue      *string `db:"HASHED_VALUE" json:"-"`
	PrivacyRequestID *string `db:"PRIVACY_REQUEST_ID" json:"privacyRequestId,omitempty"`
	CreatedTime      int64   `db:"CREATED_TIME" json:"createdTime"`
}

// HasUsableValue reports whether the identity carries a contact value that a
// verification or propagation step can act on
func (p *ProvidedIdentity) HasUsableValue() bool {
	return p != nil && p.FieldValue != nil && *p.FieldValue != ""
}

// IdentityPayload is the subject-supplied identity in a consent request body
type IdentityPayload struct {
	Email string `json:"email" binding:"required"`
}

// CreateConsentRequestPayload is the POST body for opening a consent session
type CreateConsentRequestPayload struct {
	Identity IdentityPayload `json:"identity" binding:"required"`
}

// CreateConsentRequestResponse returns the new session's id
type CreateConsentRequestResponse struct {
	ConsentRequestID string `json:"consent_request_id"`
}

// ConsentRequest represents the CONSENT_REQUEST table. One consent session
// tied to a provided identity. The privacy request link is set at most once.
type ConsentRequest struct {
	ConsentRequestID     string  `db:"CONSENT_REQUEST_ID" json:"consentRequestId"`
	IdentityID           string  `db:"IDENTITY_ID" json:"identityId"`
	PrivacyRequestID     *string `db:"PRIVACY_REQUEST_ID" json:"privacyRequestId,omitempty"`
	IdentityVerifiedTime *int64  `db:"IDENTITY_VERIFIED_TIME" json:"identityVerifiedTime,omitempty"`
	CreatedTime          int64   `db:"CREATED_TIME" json:"createdTime"`
}
