package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// PreferenceDAO handles database operations for preference history rows and
// the materialized current preferences
type PreferenceDAO struct {
	db *database.DB
}

// NewPreferenceDAO creates a new PreferenceDAO instance
func NewPreferenceDAO(db *database.DB) *PreferenceDAO {
	return &PreferenceDAO{db: db}
}

// CreateHistoryWithTx inserts a new preference history row using a transaction
func (dao *PreferenceDAO) CreateHistoryWithTx(ctx context.Context, tx *database.Transaction, history *models.PrivacyPreferenceHistory) error {
	query := `
		INSERT INTO PRIVACY_PREFERENCE_HISTORY (
			PREFERENCE_HISTORY_ID, IDENTITY_ID, NOTICE_HISTORY_ID, PREFERENCE,
			REQUEST_ORIGIN, URL_RECORDED, USER_AGENT, USER_GEOGRAPHY,
			RELEVANT_SYSTEMS, SECONDARY_IDENTIFIERS, AFFECTED_SYSTEM_STATUS,
			PRIVACY_REQUEST_ID, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		history.PreferenceHistoryID,
		history.IdentityID,
		history.NoticeHistoryID,
		history.Preference,
		history.RequestOrigin,
		history.URLRecorded,
		history.UserAgent,
		history.UserGeography,
		history.RelevantSystems,
		history.SecondaryIdentifiers,
		history.AffectedSystemStatus,
		history.PrivacyRequestID,
		history.CreatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to create preference history: %w", err)
	}

	return nil
}

// UpsertCurrentWithTx inserts or updates the current preference for an
// (identity, notice) pair. The unique key on (IDENTITY_ID, NOTICE_ID)
// serializes concurrent submissions for the same pair.
func (dao *PreferenceDAO) UpsertCurrentWithTx(ctx context.Context, tx *database.Transaction, current *models.CurrentPrivacyPreference) error {
	query := `
		INSERT INTO CURRENT_PRIVACY_PREFERENCE (
			CURRENT_PREFERENCE_ID, IDENTITY_ID, NOTICE_ID, NOTICE_HISTORY_ID,
			PREFERENCE_HISTORY_ID, PREFERENCE, CREATED_TIME, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			NOTICE_HISTORY_ID = VALUES(NOTICE_HISTORY_ID),
			PREFERENCE_HISTORY_ID = VALUES(PREFERENCE_HISTORY_ID),
			PREFERENCE = VALUES(PREFERENCE),
			UPDATED_TIME = VALUES(UPDATED_TIME)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		current.CurrentPreferenceID,
		current.IdentityID,
		current.NoticeID,
		current.NoticeHistoryID,
		current.PreferenceHistoryID,
		current.Preference,
		current.CreatedTime,
		current.UpdatedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert current preference: %w", err)
	}

	return nil
}

// LinkPrivacyRequestWithTx attaches a privacy request to a set of history rows
func (dao *PreferenceDAO) LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, preferenceHistoryIDs []string, privacyRequestID string) error {
	if len(preferenceHistoryIDs) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(preferenceHistoryIDs)-1) + "?"
	query := fmt.Sprintf(`
		UPDATE PRIVACY_PREFERENCE_HISTORY
		SET PRIVACY_REQUEST_ID = ?
		WHERE PREFERENCE_HISTORY_ID IN (%s)
	`, placeholders)

	args := make([]interface{}, 0, len(preferenceHistoryIDs)+1)
	args = append(args, privacyRequestID)
	for _, id := range preferenceHistoryIDs {
		args = append(args, id)
	}

	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to link privacy request to preference histories: %w", err)
	}

	return nil
}

// UpdateSecondaryIdentifiers attaches secondary user identifiers to a history row
func (dao *PreferenceDAO) UpdateSecondaryIdentifiers(ctx context.Context, preferenceHistoryID string, identifiers models.JSON) error {
	query := `
		UPDATE PRIVACY_PREFERENCE_HISTORY
		SET SECONDARY_IDENTIFIERS = ?
		WHERE PREFERENCE_HISTORY_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, identifiers, preferenceHistoryID)
	if err != nil {
		return fmt.Errorf("failed to update secondary identifiers: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return serviceerror.Annotate(serviceerror.ErrNotFound, "preference history not found: %s", preferenceHistoryID)
	}

	return nil
}

// UpdateAffectedSystemStatus records per-system execution status on a history row
func (dao *PreferenceDAO) UpdateAffectedSystemStatus(ctx context.Context, preferenceHistoryID string, status models.JSON) error {
	query := `
		UPDATE PRIVACY_PREFERENCE_HISTORY
		SET AFFECTED_SYSTEM_STATUS = ?
		WHERE PREFERENCE_HISTORY_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, status, preferenceHistoryID)
	if err != nil {
		return fmt.Errorf("failed to update affected system status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return serviceerror.Annotate(serviceerror.ErrNotFound, "preference history not found: %s", preferenceHistoryID)
	}

	return nil
}

// SearchHistorical lists preference history rows ordered by creation time
// descending, with strict timestamp bounds
func (dao *PreferenceDAO) SearchHistorical(ctx context.Context, params *models.HistoricalSearchParams) ([]models.HistoricalPreferenceRow, int, error) {
	var conditions []string
	var args []interface{}

	if params.RequestTimestampLT != nil {
		conditions = append(conditions, "h.CREATED_TIME < ?")
		args = append(args, *params.RequestTimestampLT)
	}

	if params.RequestTimestampGT != nil {
		conditions = append(conditions, "h.CREATED_TIME > ?")
		args = append(args, *params.RequestTimestampGT)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM PRIVACY_PREFERENCE_HISTORY h%s", whereClause)
	var total int
	err := dao.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count preference histories: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT h.PREFERENCE_HISTORY_ID, h.IDENTITY_ID, h.NOTICE_HISTORY_ID, h.PREFERENCE,
		       h.REQUEST_ORIGIN, h.URL_RECORDED, h.USER_AGENT, h.USER_GEOGRAPHY,
		       h.RELEVANT_SYSTEMS, h.SECONDARY_IDENTIFIERS, h.AFFECTED_SYSTEM_STATUS,
		       h.PRIVACY_REQUEST_ID, h.CREATED_TIME,
		       i.FIELD_VALUE AS USER_ID,
		       r.STATUS AS REQUEST_STATUS
		FROM PRIVACY_PREFERENCE_HISTORY h
		LEFT JOIN PROVIDED_IDENTITY i ON i.IDENTITY_ID = h.IDENTITY_ID
		LEFT JOIN PRIVACY_REQUEST r ON r.PRIVACY_REQUEST_ID = h.PRIVACY_REQUEST_ID%s
		ORDER BY h.CREATED_TIME DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, params.Size, (params.Page-1)*params.Size)

	var histories []models.HistoricalPreferenceRow
	err = dao.db.SelectContext(ctx, &histories, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search preference histories: %w", err)
	}

	return histories, total, nil
}

// SearchCurrent lists current preferences ordered by update time descending,
// with strict timestamp bounds
func (dao *PreferenceDAO) SearchCurrent(ctx context.Context, params *models.CurrentSearchParams) ([]models.CurrentPrivacyPreference, int, error) {
	var conditions []string
	var args []interface{}

	if params.UpdatedLT != nil {
		conditions = append(conditions, "UPDATED_TIME < ?")
		args = append(args, *params.UpdatedLT)
	}

	if params.UpdatedGT != nil {
		conditions = append(conditions, "UPDATED_TIME > ?")
		args = append(args, *params.UpdatedGT)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM CURRENT_PRIVACY_PREFERENCE%s", whereClause)
	var total int
	err := dao.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count current preferences: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT CURRENT_PREFERENCE_ID, IDENTITY_ID, NOTICE_ID, NOTICE_HISTORY_ID,
		       PREFERENCE_HISTORY_ID, PREFERENCE, CREATED_TIME, UPDATED_TIME
		FROM CURRENT_PRIVACY_PREFERENCE%s
		ORDER BY UPDATED_TIME DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, params.Size, (params.Page-1)*params.Size)

	var currents []models.CurrentPrivacyPreference
	err = dao.db.SelectContext(ctx, &currents, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search current preferences: %w", err)
	}

	return currents, total, nil
}

// ListCurrentByIdentity lists the current preferences for one identity,
// most recently created first
func (dao *PreferenceDAO) ListCurrentByIdentity(ctx context.Context, identityID string, page, size int) ([]models.CurrentPrivacyPreference, int, error) {
	countQuery := `SELECT COUNT(*) FROM CURRENT_PRIVACY_PREFERENCE WHERE IDENTITY_ID = ?`
	var total int
	err := dao.db.GetContext(ctx, &total, countQuery, identityID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count current preferences: %w", err)
	}

	query := `
		SELECT CURRENT_PREFERENCE_ID, IDENTITY_ID, NOTICE_ID, NOTICE_HISTORY_ID,
		       PREFERENCE_HISTORY_ID, PREFERENCE, CREATED_TIME, UPDATED_TIME
		FROM CURRENT_PRIVACY_PREFERENCE
		WHERE IDENTITY_ID = ?
		ORDER BY CREATED_TIME DESC
		LIMIT ? OFFSET ?
	`

	var currents []models.CurrentPrivacyPreference
	err = dao.db.SelectContext(ctx, &currents, query, identityID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list current preferences: %w", err)
	}

	return currents, total, nil
}
