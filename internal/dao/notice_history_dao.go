package dao

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// NoticeHistoryDAO handles database operations for privacy notice histories
type NoticeHistoryDAO struct {
	db *database.DB
}

// NewNoticeHistoryDAO creates a new NoticeHistoryDAO instance
func NewNoticeHistoryDAO(db *database.DB) *NoticeHistoryDAO {
	return &NoticeHistoryDAO{db: db}
}

// GetByID retrieves a privacy notice history by ID
func (dao *NoticeHistoryDAO) GetByID(ctx context.Context, noticeHistoryID string) (*models.PrivacyNoticeHistory, error) {
	query := `
		SELECT NOTICE_HISTORY_ID, NOTICE_ID, NAME, DESCRIPTION, VERSION, CREATED_TIME
		FROM PRIVACY_NOTICE_HISTORY
		WHERE NOTICE_HISTORY_ID = ?
	`

	var history models.PrivacyNoticeHistory
	err := dao.db.GetContext(ctx, &history, query, noticeHistoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serviceerror.Annotate(serviceerror.ErrNotFound, "privacy notice history not found: %s", noticeHistoryID)
		}
		return nil, fmt.Errorf("failed to get privacy notice history: %w", err)
	}

	return &history, nil
}

// GetByIDs retrieves privacy notice histories for a set of IDs, keyed by ID.
// IDs with no matching row are simply absent from the result.
func (dao *NoticeHistoryDAO) GetByIDs(ctx context.Context, noticeHistoryIDs []string) (map[string]*models.PrivacyNoticeHistory, error) {
	if len(noticeHistoryIDs) == 0 {
		return map[string]*models.PrivacyNoticeHistory{}, nil
	}

	placeholders := strings.Repeat("?,", len(noticeHistoryIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT NOTICE_HISTORY_ID, NOTICE_ID, NAME, DESCRIPTION, VERSION, CREATED_TIME
		FROM PRIVACY_NOTICE_HISTORY
		WHERE NOTICE_HISTORY_ID IN (%s)
	`, placeholders)

	args := make([]interface{}, 0, len(noticeHistoryIDs))
	for _, id := range noticeHistoryIDs {
		args = append(args, id)
	}

	var histories []models.PrivacyNoticeHistory
	err := dao.db.SelectContext(ctx, &histories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get privacy notice histories: %w", err)
	}

	result := make(map[string]*models.PrivacyNoticeHistory, len(histories))
	for i := range histories {
		result[histories[i].NoticeHistoryID] = &histories[i]
	}

	return result, nil
}
