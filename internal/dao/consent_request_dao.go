package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// ConsentRequestDAO handles database operations for consent requests
type ConsentRequestDAO struct {
	db *database.DB
}

// NewConsentRequestDAO creates a new ConsentRequestDAO instance
func NewConsentRequestDAO(db *database.DB) *ConsentRequestDAO {
	return &ConsentRequestDAO{db: db}
}

// Create inserts a new consent request
func (dao *ConsentRequestDAO) Create(ctx context.Context, request *models.ConsentRequest) error {
	query := `
		INSERT INTO CONSENT_REQUEST (
			CONSENT_REQUEST_ID, IDENTITY_ID, PRIVACY_REQUEST_ID,
			IDENTITY_VERIFIED_TIME, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		request.ConsentRequestID,
		request.IdentityID,
		request.PrivacyRequestID,
		request.IdentityVerifiedTime,
		request.CreatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create consent request: %w", err)
	}

	return nil
}

// GetByID retrieves a consent request by ID
func (dao *ConsentRequestDAO) GetByID(ctx context.Context, consentRequestID string) (*models.ConsentRequest, error) {
	query := `
		SELECT CONSENT_REQUEST_ID, IDENTITY_ID, PRIVACY_REQUEST_ID,
		       IDENTITY_VERIFIED_TIME, CREATED_TIME
		FROM CONSENT_REQUEST
		WHERE CONSENT_REQUEST_ID = ?
	`

	var request models.ConsentRequest
	err := dao.db.GetContext(ctx, &request, query, consentRequestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serviceerror.Annotate(serviceerror.ErrNotFound, "consent request not found: %s", consentRequestID)
		}
		return nil, fmt.Errorf("failed to get consent request: %w", err)
	}

	return &request, nil
}

// MarkIdentityVerified stamps the identity verification time on a consent request
func (dao *ConsentRequestDAO) MarkIdentityVerified(ctx context.Context, consentRequestID string, verifiedTime int64) error {
	query := `
		UPDATE CONSENT_REQUEST
		SET IDENTITY_VERIFIED_TIME = ?
		WHERE CONSENT_REQUEST_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, verifiedTime, consentRequestID)
	if err != nil {
		return fmt.Errorf("failed to mark identity verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return serviceerror.Annotate(serviceerror.ErrNotFound, "consent request not found: %s", consentRequestID)
	}

	return nil
}

// LinkPrivacyRequestWithTx sets the privacy request link on a consent request
// only when no link exists yet. The link is set at most once for the lifetime
// of the session; later submissions never overwrite it.
func (dao *ConsentRequestDAO) LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, consentRequestID, privacyRequestID string) error {
	query := `
		UPDATE CONSENT_REQUEST
		SET PRIVACY_REQUEST_ID = ?
		WHERE CONSENT_REQUEST_ID = ? AND PRIVACY_REQUEST_ID IS NULL
	`

	_, err := tx.ExecContext(ctx, query, privacyRequestID, consentRequestID)
	if err != nil {
		return fmt.Errorf("failed to link privacy request: %w", err)
	}

	return nil
}
