package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// ProvidedIdentityDAO handles database operations for provided identities
type ProvidedIdentityDAO struct {
	db *database.DB
}

// NewProvidedIdentityDAO creates a new ProvidedIdentityDAO instance
func NewProvidedIdentityDAO(db *database.DB) *ProvidedIdentityDAO {
	return &ProvidedIdentityDAO{db: db}
}

// Create inserts a new provided identity
func (dao *ProvidedIdentityDAO) Create(ctx context.Context, identity *models.ProvidedIdentity) error {
	query := `
		INSERT INTO PROVIDED_IDENTITY (
			IDENTITY_ID, FIELD_NAME, FIELD_VALUE, HASHED_VALUE,
			PRIVACY_REQUEST_ID, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		identity.IdentityID,
		identity.FieldName,
		identity.FieldValue,
		identity.HashedValue,
		identity.PrivacyRequestID,
		identity.CreatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create provided identity: %w", err)
	}

	return nil
}

// GetByID retrieves a provided identity by ID
func (dao *ProvidedIdentityDAO) GetByID(ctx context.Context, identityID string) (*models.ProvidedIdentity, error) {
	query := `
		SELECT IDENTITY_ID, FIELD_NAME, FIELD_VALUE, HASHED_VALUE,
		       PRIVACY_REQUEST_ID, CREATED_TIME
		FROM PROVIDED_IDENTITY
		WHERE IDENTITY_ID = ?
	`

	var identity models.ProvidedIdentity
	err := dao.db.GetContext(ctx, &identity, query, identityID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serviceerror.Annotate(serviceerror.ErrNotFound, "provided identity not found: %s", identityID)
		}
		return nil, fmt.Errorf("failed to get provided identity: %w", err)
	}

	return &identity, nil
}
