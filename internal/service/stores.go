package service

import (
	"context"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/scheduler"
)

// Store interfaces consumed by the services. The dao package returns the
// concrete implementations; tests substitute mocks.

// ConsentRequestStore resolves and mutates consent sessions
type ConsentRequestStore interface {
	Create(ctx context.Context, request *models.ConsentRequest) error
	GetByID(ctx context.Context, consentRequestID string) (*models.ConsentRequest, error)
	MarkIdentityVerified(ctx context.Context, consentRequestID string, verifiedTime int64) error
	LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, consentRequestID, privacyRequestID string) error
}

// IdentityStore resolves provided identities
type IdentityStore interface {
	Create(ctx context.Context, identity *models.ProvidedIdentity) error
	GetByID(ctx context.Context, identityID string) (*models.ProvidedIdentity, error)
}

// NoticeHistoryStore resolves privacy notice history snapshots
type NoticeHistoryStore interface {
	GetByIDs(ctx context.Context, noticeHistoryIDs []string) (map[string]*models.PrivacyNoticeHistory, error)
}

// PreferenceStore persists preference history rows and current preferences
type PreferenceStore interface {
	CreateHistoryWithTx(ctx context.Context, tx *database.Transaction, history *models.PrivacyPreferenceHistory) error
	UpsertCurrentWithTx(ctx context.Context, tx *database.Transaction, current *models.CurrentPrivacyPreference) error
	LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, preferenceHistoryIDs []string, privacyRequestID string) error
	UpdateSecondaryIdentifiers(ctx context.Context, preferenceHistoryID string, identifiers models.JSON) error
	UpdateAffectedSystemStatus(ctx context.Context, preferenceHistoryID string, status models.JSON) error
	SearchHistorical(ctx context.Context, params *models.HistoricalSearchParams) ([]models.HistoricalPreferenceRow, int, error)
	SearchCurrent(ctx context.Context, params *models.CurrentSearchParams) ([]models.CurrentPrivacyPreference, int, error)
	ListCurrentByIdentity(ctx context.Context, identityID string, page, size int) ([]models.CurrentPrivacyPreference, int, error)
}

// PolicyStore resolves dispatch policies by key
type PolicyStore interface {
	GetByKey(ctx context.Context, policyKey string) (*models.Policy, error)
}

// PrivacyRequestStore persists downstream privacy requests
type PrivacyRequestStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, request *models.PrivacyRequest) error
	UpdateStatus(ctx context.Context, privacyRequestID, status string, updatedTime int64) error
}

// TaskScheduler accepts fire-and-forget work; Submit must never block
type TaskScheduler interface {
	Submit(task scheduler.Task) bool
}
