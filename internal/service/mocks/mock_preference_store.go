package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
)

// MockPreferenceStore is a mock implementation of PreferenceStore
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) CreateHistoryWithTx(ctx context.Context, tx *database.Transaction, history *models.PrivacyPreferenceHistory) error {
	args := m.Called(ctx, tx, history)
	return args.Error(0)
}

func (m *MockPreferenceStore) UpsertCurrentWithTx(ctx context.Context, tx *database.Transaction, current *models.CurrentPrivacyPreference) error {
	args := m.Called(ctx, tx, current)
	return args.Error(0)
}

func (m *MockPreferenceStore) LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, preferenceHistoryIDs []string, privacyRequestID string) error {
	args := m.Called(ctx, tx, preferenceHistoryIDs, privacyRequestID)
	return args.Error(0)
}

func (m *MockPreferenceStore) UpdateSecondaryIdentifiers(ctx context.Context, preferenceHistoryID string, identifiers models.JSON) error {
	args := m.Called(ctx, preferenceHistoryID, identifiers)
	return args.Error(0)
}

func (m *MockPreferenceStore) UpdateAffectedSystemStatus(ctx context.Context, preferenceHistoryID string, status models.JSON) error {
	args := m.Called(ctx, preferenceHistoryID, status)
	return args.Error(0)
}

func (m *MockPreferenceStore) SearchHistorical(ctx context.Context, params *models.HistoricalSearchParams) ([]models.HistoricalPreferenceRow, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.HistoricalPreferenceRow), args.Int(1), args.Error(2)
}

func (m *MockPreferenceStore) SearchCurrent(ctx context.Context, params *models.CurrentSearchParams) ([]models.CurrentPrivacyPreference, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.CurrentPrivacyPreference), args.Int(1), args.Error(2)
}

func (m *MockPreferenceStore) ListCurrentByIdentity(ctx context.Context, identityID string, page, size int) ([]models.CurrentPrivacyPreference, int, error) {
	args := m.Called(ctx, identityID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.CurrentPrivacyPreference), args.Int(1), args.Error(2)
}
