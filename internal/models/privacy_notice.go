package models

// PrivacyNoticeHistory represents the PRIVACY_NOTICE_HISTORY table. An
// immutable versioned snapshot of a notice shown to the user; preference
// records reference it and never mutate it.
type PrivacyNoticeHistory struct {
	NoticeHistoryID string  `db:"NOTICE_HISTORY_ID" json:"privacy_notice_history_id"`
	NoticeID        string  `db:"NOTICE_ID" json:"privacy_notice_id"`
	Name            string  `db:"NAME" json:"name"`
	Description     *string `db:"DESCRIPTION" json:"description,omitempty"`
	Version         float64 `db:"VERSION" json:"version"`
	CreatedTime     int64   `db:"CREATED_TIME" json:"created_time"`
}
