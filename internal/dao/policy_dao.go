package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
)

// PolicyDAO handles database operations for policies
type PolicyDAO struct {
	db *database.DB
}

// NewPolicyDAO creates a new PolicyDAO instance
func NewPolicyDAO(db *database.DB) *PolicyDAO {
	return &PolicyDAO{db: db}
}

// GetByKey retrieves a policy by its key. Returns (nil, nil) when no policy
// with the key exists; the caller decides how to surface the absence.
func (dao *PolicyDAO) GetByKey(ctx context.Context, policyKey string) (*models.Policy, error) {
	query := `
		SELECT POLICY_ID, POLICY_KEY, NAME, CREATED_TIME
		FROM POLICY
		WHERE POLICY_KEY = ?
	`

	var policy models.Policy
	err := dao.db.GetContext(ctx, &policy, query, policyKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	return &policy, nil
}
