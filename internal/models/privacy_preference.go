package models

// UserConsentPreference lists the preference decisions a subject can record
type UserConsentPreference string

const (
	PreferenceOptIn       UserConsentPreference = "opt_in"
	PreferenceOptOut      UserConsentPreference = "opt_out"
	PreferenceAcknowledge UserConsentPreference = "acknowledge"
)

// PrivacyPreferenceHistory represents the PRIVACY_PREFERENCE_HISTORY table.
// Append-only: one row per preference decision per submission. The privacy
// request link and secondary identifiers are the only fields attached after
// creation.
type PrivacyPreferenceHistory struct {
	PreferenceHistoryID  string  `db:"PREFERENCE_HISTORY_ID" json:"privacy_preference_history_id"`
	IdentityID           string  `db:"IDENTITY_ID" json:"identity_id"`
	NoticeHistoryID      string  `db:"NOTICE_HISTORY_ID" json:"privacy_notice_history_id"`
	Preference           string  `db:"PREFERENCE" json:"preference"`
	RequestOrigin        *string `db:"REQUEST_ORIGIN" json:"request_origin,omitempty"`
	URLRecorded          *string `db:"URL_RECORDED" json:"url_recorded,omitempty"`
	UserAgent            *string `db:"USER_AGENT" json:"user_agent,omitempty"`
	UserGeography        *string `db:"USER_GEOGRAPHY" json:"user_geography,omitempty"`
	RelevantSystems      JSON    `db:"RELEVANT_SYSTEMS" json:"relevant_systems,omitempty"`
	SecondaryIdentifiers JSON    `db:"SECONDARY_IDENTIFIERS" json:"secondary_user_ids,omitempty"`
	AffectedSystemStatus JSON    `db:"AFFECTED_SYSTEM_STATUS" json:"affected_system_status,omitempty"`
	PrivacyRequestID     *string `db:"PRIVACY_REQUEST_ID" json:"privacy_request_id,omitempty"`
	CreatedTime          int64   `db:"CREATED_TIME" json:"created_time"`
}

// CurrentPrivacyPreference represents the CURRENT_PRIVACY_PREFERENCE table.
// Exactly one row per (identity, notice) pair; mirrors the most recent
// history entry for that pair.
type CurrentPrivacyPreference struct {
	CurrentPreferenceID string `db:"CURRENT_PREFERENCE_ID" json:"id"`
	IdentityID          string `db:"IDENTITY_ID" json:"provided_identity_id"`
	NoticeID            string `db:"NOTICE_ID" json:"privacy_notice_id"`
	NoticeHistoryID     string `db:"NOTICE_HISTORY_ID" json:"privacy_notice_history_id"`
	PreferenceHistoryID string `db:"PREFERENCE_HISTORY_ID" json:"privacy_preference_history_id"`
	Preference          string `db:"PREFERENCE" json:"preference"`
	CreatedTime         int64  `db:"CREATED_TIME" json:"created_time"`
	UpdatedTime         int64  `db:"UPDATED_TIME" json:"updated_time"`
}

// HistoricalPreferenceRow is one historical listing result: a history row
// joined with the subject's identity value and the status of the linked
// privacy request. Both joined columns are null for unlinked rows.
type HistoricalPreferenceRow struct {
	PrivacyPreferenceHistory
	UserID        *string `db:"USER_ID" json:"user_id,omitempty"`
	RequestStatus *string `db:"REQUEST_STATUS" json:"request_status,omitempty"`
}

// NoticePreferenceItem is one (notice history, preference) pair in a submission
type NoticePreferenceItem struct {
	PrivacyNoticeHistoryID string `json:"privacy_notice_history_id" binding:"required"`
	Preference             string `json:"preference" binding:"required,oneof=opt_in opt_out acknowledge"`
}

// SavePreferencesRequest is the PATCH body for recording preferences against
// a consent request
type SavePreferencesRequest struct {
	BrowserIdentity map[string]string      `json:"browser_identity,omitempty"`
	Code            string                 `json:"code,omitempty"`
	Preferences     []NoticePreferenceItem `json:"preferences"`
	PolicyKey       string                 `json:"policy_key,omitempty"`
	RequestOrigin   string                 `json:"request_origin,omitempty"`
	URLRecorded     string                 `json:"url_recorded,omitempty"`
	UserAgent       string                 `json:"user_agent,omitempty"`
	UserGeography   string                 `json:"user_geography,omitempty"`
}

// VerifyRequest is the POST body for verifying a consent request's code
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// SavedPreferenceResponse is one element of the ordered PATCH response
type SavedPreferenceResponse struct {
	PrivacyPreferenceHistoryID string                `json:"privacy_preference_history_id"`
	Preference                 string                `json:"preference"`
	PrivacyNoticeHistory       *PrivacyNoticeHistory `json:"privacy_notice_history"`
}

// CurrentPreferenceResponse is one item of the verify / current listing envelope
type CurrentPreferenceResponse struct {
	ID                         string                `json:"id"`
	ProvidedIdentityID         string                `json:"provided_identity_id"`
	PrivacyPreferenceHistoryID string                `json:"privacy_preference_history_id"`
	Preference                 string                `json:"preference"`
	PrivacyNoticeHistory       *PrivacyNoticeHistory `json:"privacy_notice_history"`
	CreatedAt                  string                `json:"created_at"`
	UpdatedAt                  string                `json:"updated_at"`
}

// HistoricalSearchParams filters the append-only preference history listing.
// Timestamp bounds compare strictly against CREATED_TIME.
type HistoricalSearchParams struct {
	RequestTimestampLT *int64
	RequestTimestampGT *int64
	Page               int
	Size               int
}

// CurrentSearchParams filters the current preference listing. Timestamp
// bounds compare strictly against UPDATED_TIME.
type CurrentSearchParams struct {
	UpdatedLT *int64
	UpdatedGT *int64
	Page      int
	Size      int
}

// HistoricalPreferenceResponse is one item of the historical listing envelope
type HistoricalPreferenceResponse struct {
	ID                     string            `json:"id"`
	PrivacyRequestID       *string           `json:"privacy_request_id"`
	UserID                 *string           `json:"user_id"`
	SecondaryUserIDs       map[string]string `json:"secondary_user_ids,omitempty"`
	RequestTimestamp       string            `json:"request_timestamp"`
	RequestOrigin          *string           `json:"request_origin"`
	RequestStatus          *string           `json:"request_status"`
	RequestType            string            `json:"request_type"`
	PrivacyNoticeHistoryID string            `json:"privacy_notice_history_id"`
	Preference             string            `json:"preference"`
	UserGeography          *string           `json:"user_geography"`
	RelevantSystems        []string          `json:"relevant_systems,omitempty"`
	AffectedSystemStatus   map[string]string `json:"affected_system_status,omitempty"`
	URLRecorded            *string           `json:"url_recorded"`
	UserAgent              *string           `json:"user_agent"`
}
