package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// PrivacyRequestDAO handles database operations for privacy requests
type PrivacyRequestDAO struct {
	db *database.DB
}

// NewPrivacyRequestDAO creates a new PrivacyRequestDAO instance
func NewPrivacyRequestDAO(db *database.DB) *PrivacyRequestDAO {
	return &PrivacyRequestDAO{db: db}
}

// CreateWithTx inserts a new privacy request using a transaction
func (dao *PrivacyRequestDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, request *models.PrivacyRequest) error {
	query := `
		INSERT INTO PRIVACY_REQUEST (
			PRIVACY_REQUEST_ID, POLICY_ID, STATUS, REVIEWED_BY,
			CREATED_TIME, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		request.PrivacyRequestID,
		request.PolicyID,
		request.Status,
		request.ReviewedBy,
		request.CreatedTime,
		request.UpdatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create privacy request: %w", err)
	}

	return nil
}

// GetByID retrieves a privacy request by ID
func (dao *PrivacyRequestDAO) GetByID(ctx context.Context, privacyRequestID string) (*models.PrivacyRequest, error) {
	query := `
		SELECT PRIVACY_REQUEST_ID, POLICY_ID, STATUS, REVIEWED_BY,
		       CREATED_TIME, UPDATED_TIME
		FROM PRIVACY_REQUEST
		WHERE PRIVACY_REQUEST_ID = ?
	`

	var request models.PrivacyRequest
	err := dao.db.GetContext(ctx, &request, query, privacyRequestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serviceerror.Annotate(serviceerror.ErrNotFound, "privacy request not found: %s", privacyRequestID)
		}
		return nil, fmt.Errorf("failed to get privacy request: %w", err)
	}

	return &request, nil
}

// UpdateStatus updates the status of a privacy request
func (dao *PrivacyRequestDAO) UpdateStatus(ctx context.Context, privacyRequestID, status string, updatedTime int64) error {
	query := `
		UPDATE PRIVACY_REQUEST
		SET STATUS = ?, UPDATED_TIME = ?
		WHERE PRIVACY_REQUEST_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, status, updatedTime, privacyRequestID)
	if err != nil {
		return fmt.Errorf("failed to update privacy request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return serviceerror.Annotate(serviceerror.ErrNotFound, "privacy request not found: %s", privacyRequestID)
	}

	return nil
}
