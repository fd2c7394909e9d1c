package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bilalmirza74/fides/internal/models"
)

// MockIdentityStore is a mock implementation of IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) Create(ctx context.Context, identity *models.ProvidedIdentity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityStore) GetByID(ctx context.Context, identityID string) (*models.ProvidedIdentity, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvidedIdentity), args.Error(1)
}
