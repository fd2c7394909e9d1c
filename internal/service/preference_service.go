package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
	"github.com/bilalmirza74/fides/pkg/utils"
)

// PreferenceService records preference submissions and serves the
// historical and current preference listings
type PreferenceService struct {
	db          *database.DB
	notices     NoticeHistoryStore
	preferences PreferenceStore
	logger      *logrus.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(db *database.DB, notices NoticeHistoryStore, preferences PreferenceStore, logger *logrus.Logger) *PreferenceService {
	return &PreferenceService{
		db:          db,
		notices:     notices,
		preferences: preferences,
		logger:      logger,
	}
}

// Record persists one submission's preference pairs for the given identity.
// All validation happens before any row is written. History rows are created
// in input order inside one transaction, and the current preference for each
// (identity, notice) pair is upserted alongside. Returns the created history
// rows in input order together with the resolved notice snapshots.
func (s *PreferenceService) Record(ctx context.Context, identity *models.ProvidedIdentity, req *models.SavePreferencesRequest) ([]models.PrivacyPreferenceHistory, map[string]*models.PrivacyNoticeHistory, error) {
	if !identity.HasUsableValue() {
		return nil, nil, serviceerror.Annotate(serviceerror.ErrIdentityMissing, "no usable identity value on consent request")
	}
	if len(req.Preferences) == 0 {
		return nil, nil, serviceerror.Annotate(serviceerror.ErrValidation, "preferences must contain at least one entry")
	}

	noticeHistoryIDs := make([]string, 0, len(req.Preferences))
	seen := make(map[string]bool, len(req.Preferences))
	for _, item := range req.Preferences {
		if err := utils.ValidatePreference(item.Preference); err != nil {
			return nil, nil, serviceerror.Annotate(serviceerror.ErrValidation, "invalid preference for notice history '%s': %v", item.PrivacyNoticeHistoryID, err)
		}
		if seen[item.PrivacyNoticeHistoryID] {
			return nil, nil, serviceerror.Annotate(serviceerror.ErrInvalidNotice, "duplicate privacy notice history id '%s'", item.PrivacyNoticeHistoryID)
		}
		seen[item.PrivacyNoticeHistoryID] = true
		noticeHistoryIDs = append(noticeHistoryIDs, item.PrivacyNoticeHistoryID)
	}

	noticeMap, err := s.notices.GetByIDs(ctx, noticeHistoryIDs)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve privacy notice histories")
		return nil, nil, fmt.Errorf("failed to resolve privacy notice histories: %w", err)
	}
	for _, id := range noticeHistoryIDs {
		if _, ok := noticeMap[id]; !ok {
			return nil, nil, serviceerror.Annotate(serviceerror.ErrInvalidNotice, "privacy notice history '%s' does not exist", id)
		}
	}

	secondaryIdentifiers, err := marshalStringMap(req.BrowserIdentity)
	if err != nil {
		return nil, nil, serviceerror.Annotate(serviceerror.ErrValidation, "invalid browser identity: %v", err)
	}

	now := utils.GetCurrentTimeMillis()
	histories := make([]models.PrivacyPreferenceHistory, 0, len(req.Preferences))

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		for _, item := range req.Preferences {
			notice := noticeMap[item.PrivacyNoticeHistoryID]
			history := models.PrivacyPreferenceHistory{
				PreferenceHistoryID:  utils.GeneratePreferenceHistoryID(),
				IdentityID:           identity.IdentityID,
				NoticeHistoryID:      item.PrivacyNoticeHistoryID,
				Preference:           item.Preference,
				RequestOrigin:        nullableString(req.RequestOrigin),
				URLRecorded:          nullableString(req.URLRecorded),
				UserAgent:            nullableString(req.UserAgent),
				UserGeography:        nullableString(req.UserGeography),
				SecondaryIdentifiers: secondaryIdentifiers,
				CreatedTime:          now,
			}
			if err := s.preferences.CreateHistoryWithTx(ctx, tx, &history); err != nil {
				return fmt.Errorf("failed to create preference history: %w", err)
			}

			current := models.CurrentPrivacyPreference{
				CurrentPreferenceID: utils.GenerateCurrentPreferenceID(),
				IdentityID:          identity.IdentityID,
				NoticeID:            notice.NoticeID,
				NoticeHistoryID:     item.PrivacyNoticeHistoryID,
				PreferenceHistoryID: history.PreferenceHistoryID,
				Preference:          item.Preference,
				CreatedTime:         now,
				UpdatedTime:         now,
			}
			if err := s.preferences.UpsertCurrentWithTx(ctx, tx, &current); err != nil {
				return fmt.Errorf("failed to upsert current preference: %w", err)
			}

			histories = append(histories, history)
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("identityId", identity.IdentityID).Error("Failed to record privacy preferences")
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"identityId": identity.IdentityID,
		"count":      len(histories),
	}).Info("Recorded privacy preferences")

	return histories, noticeMap, nil
}

// ListHistorical returns preference history rows filtered by the optional
// request timestamp bounds, newest first. When both bounds are present the
// upper bound must be strictly after the lower bound.
func (s *PreferenceService) ListHistorical(ctx context.Context, params *models.HistoricalSearchParams) ([]models.HistoricalPreferenceResponse, int, error) {
	if err := validateTimestampRange("request_timestamp", params.RequestTimestampLT, params.RequestTimestampGT); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.preferences.SearchHistorical(ctx, params)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search preference history")
		return nil, 0, fmt.Errorf("failed to search preference history: %w", err)
	}

	items := make([]models.HistoricalPreferenceResponse, 0, len(rows))
	for i := range rows {
		items = append(items, buildHistoricalResponse(&rows[i]))
	}
	return items, total, nil
}

// ListCurrent returns current preferences filtered by the optional update
// timestamp bounds, most recently updated first, with the notice snapshot
// each preference was recorded against.
func (s *PreferenceService) ListCurrent(ctx context.Context, params *models.CurrentSearchParams) ([]models.CurrentPreferenceResponse, int, error) {
	if err := validateTimestampRange("updated", params.UpdatedLT, params.UpdatedGT); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.preferences.SearchCurrent(ctx, params)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search current preferences")
		return nil, 0, fmt.Errorf("failed to search current preferences: %w", err)
	}

	items, err := s.buildCurrentResponses(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListCurrentForIdentity returns one identity's current preferences with
// their notice snapshots, newest first
func (s *PreferenceService) ListCurrentForIdentity(ctx context.Context, identityID string, page, size int) ([]models.CurrentPreferenceResponse, int, error) {
	rows, total, err := s.preferences.ListCurrentByIdentity(ctx, identityID, page, size)
	if err != nil {
		s.logger.WithError(err).WithField("identityId", identityID).Error("Failed to list current preferences")
		return nil, 0, fmt.Errorf("failed to list current preferences: %w", err)
	}

	items, err := s.buildCurrentResponses(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AttachSecondaryIdentifiers replaces the secondary identifiers recorded on
// a preference history row
func (s *PreferenceService) AttachSecondaryIdentifiers(ctx context.Context, preferenceHistoryID string, identifiers map[string]string) error {
	payload, err := marshalStringMap(identifiers)
	if err != nil {
		return serviceerror.Annotate(serviceerror.ErrValidation, "invalid secondary identifiers: %v", err)
	}
	if err := s.preferences.UpdateSecondaryIdentifiers(ctx, preferenceHistoryID, payload); err != nil {
		return fmt.Errorf("failed to update secondary identifiers: %w", err)
	}
	return nil
}

// RecordAffectedSystemStatus stores per-system propagation outcomes on a
// preference history row
func (s *PreferenceService) RecordAffectedSystemStatus(ctx context.Context, preferenceHistoryID string, status map[string]string) error {
	payload, err := marshalStringMap(status)
	if err != nil {
		return serviceerror.Annotate(serviceerror.ErrValidation, "invalid affected system status: %v", err)
	}
	if err := s.preferences.UpdateAffectedSystemStatus(ctx, preferenceHistoryID, payload); err != nil {
		return fmt.Errorf("failed to update affected system status: %w", err)
	}
	return nil
}

func (s *PreferenceService) buildCurrentResponses(ctx context.Context, rows []models.CurrentPrivacyPreference) ([]models.CurrentPreferenceResponse, error) {
	noticeHistoryIDs := make([]string, 0, len(rows))
	for i := range rows {
		noticeHistoryIDs = append(noticeHistoryIDs, rows[i].NoticeHistoryID)
	}

	noticeMap := map[string]*models.PrivacyNoticeHistory{}
	if len(noticeHistoryIDs) > 0 {
		var err error
		noticeMap, err = s.notices.GetByIDs(ctx, noticeHistoryIDs)
		if err != nil {
			s.logger.WithError(err).Error("Failed to resolve privacy notice histories")
			return nil, fmt.Errorf("failed to resolve privacy notice histories: %w", err)
		}
	}

	items := make([]models.CurrentPreferenceResponse, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		items = append(items, models.CurrentPreferenceResponse{
			ID:                         row.CurrentPreferenceID,
			ProvidedIdentityID:         row.IdentityID,
			PrivacyPreferenceHistoryID: row.PreferenceHistoryID,
			Preference:                 row.Preference,
			PrivacyNoticeHistory:       noticeMap[row.NoticeHistoryID],
			CreatedAt:                  utils.FormatTime(utils.MillisToTime(row.CreatedTime)),
			UpdatedAt:                  utils.FormatTime(utils.MillisToTime(row.UpdatedTime)),
		})
	}
	return items, nil
}

func buildHistoricalResponse(row *models.HistoricalPreferenceRow) models.HistoricalPreferenceResponse {
	return models.HistoricalPreferenceResponse{
		ID:                     row.PreferenceHistoryID,
		PrivacyRequestID:       row.PrivacyRequestID,
		UserID:                 row.UserID,
		SecondaryUserIDs:       unmarshalStringMap(row.SecondaryIdentifiers),
		RequestTimestamp:       utils.FormatTime(utils.MillisToTime(row.CreatedTime)),
		RequestOrigin:          row.RequestOrigin,
		RequestStatus:          row.RequestStatus,
		RequestType:            "consent",
		PrivacyNoticeHistoryID: row.NoticeHistoryID,
		Preference:             row.Preference,
		UserGeography:          row.UserGeography,
		RelevantSystems:        unmarshalStringSlice(row.RelevantSystems),
		AffectedSystemStatus:   unmarshalStringMap(row.AffectedSystemStatus),
		URLRecorded:            row.URLRecorded,
		UserAgent:              row.UserAgent,
	}
}

func validateTimestampRange(fieldName string, lt, gt *int64) error {
	if lt == nil || gt == nil {
		return nil
	}
	if *lt <= *gt {
		return serviceerror.Annotate(serviceerror.ErrValidation,
			"value specified for %s_lt: %s must be after %s_gt: %s",
			fieldName, utils.FormatTime(utils.MillisToTime(*lt)),
			fieldName, utils.FormatTime(utils.MillisToTime(*gt)))
	}
	return nil
}

func marshalStringMap(m map[string]string) (models.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return models.JSON(data), nil
}

func unmarshalStringMap(j models.JSON) map[string]string {
	if len(j) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

func unmarshalStringSlice(j models.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var s []string
	if err := json.Unmarshal(j, &s); err != nil {
		return nil
	}
	return s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
