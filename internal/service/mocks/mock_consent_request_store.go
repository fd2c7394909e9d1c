package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
)

// MockConsentRequestStore is a mock implementation of ConsentRequestStore
type MockConsentRequestStore struct {
	mock.Mock
}

func (m *MockConsentRequestStore) Create(ctx context.Context, request *models.ConsentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockConsentRequestStore) GetByID(ctx context.Context, consentRequestID string) (*models.ConsentRequest, error) {
	args := m.Called(ctx, consentRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConsentRequest), args.Error(1)
}

func (m *MockConsentRequestStore) MarkIdentityVerified(ctx context.Context, consentRequestID string, verifiedTime int64) error {
	args := m.Called(ctx, consentRequestID, verifiedTime)
	return args.Error(0)
}

func (m *MockConsentRequestStore) LinkPrivacyRequestWithTx(ctx context.Context, tx *database.Transaction, consentRequestID, privacyRequestID string) error {
	args := m.Called(ctx, tx, consentRequestID, privacyRequestID)
	return args.Error(0)
}
