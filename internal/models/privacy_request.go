package models

// PrivacyRequestStatus lists privacy request lifecycle statuses
type PrivacyRequestStatus string

const (
	PrivacyRequestStatusPending      PrivacyRequestStatus = "pending"
	PrivacyRequestStatusInProcessing PrivacyRequestStatus = "in_processing"
	PrivacyRequestStatusComplete     PrivacyRequestStatus = "complete"
	PrivacyRequestStatusError        PrivacyRequestStatus = "error"
)

// PrivacyRequest represents the PRIVACY_REQUEST table. A downstream unit of
// work obligating preference changes to be executed across connected systems.
type PrivacyRequest struct {
	PrivacyRequestID string  `db:"PRIVACY_REQUEST_ID" json:"privacyRequestId"`
	PolicyID         string  `db:"POLICY_ID" json:"policyId"`
	Status           string  `db:"STATUS" json:"status"`
	ReviewedBy       *string `db:"REVIEWED_BY" json:"reviewedBy,omitempty"`
	CreatedTime      int64   `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime      int64   `db:"UPDATED_TIME" json:"updatedTime"`
}

// Policy represents the POLICY table, resolved by key at dispatch time
type Policy struct {
	PolicyID    string `db:"POLICY_ID" json:"policyId"`
	PolicyKey   string `db:"POLICY_KEY" json:"policyKey"`
	Name        string `db:"NAME" json:"name"`
	CreatedTime int64  `db:"CREATED_TIME" json:"createdTime"`
}
