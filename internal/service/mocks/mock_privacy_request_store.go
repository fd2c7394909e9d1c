package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/scheduler"
)

// MockPolicyStore is a mock implementation of PolicyStore
type MockPolicyStore struct {
	mock.Mock
}

func (m *MockPolicyStore) GetByKey(ctx context.Context, policyKey string) (*models.Policy, error) {
	args := m.Called(ctx, policyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Policy), args.Error(1)
}

// MockPrivacyRequestStore is a mock implementation of PrivacyRequestStore
type MockPrivacyRequestStore struct {
	mock.Mock
}

func (m *MockPrivacyRequestStore) CreateWithTx(ctx context.Context, tx *database.Transaction, request *models.PrivacyRequest) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

func (m *MockPrivacyRequestStore) UpdateStatus(ctx context.Context, privacyRequestID, status string, updatedTime int64) error {
	args := m.Called(ctx, privacyRequestID, status, updatedTime)
	return args.Error(0)
}

// MockScheduler is a mock implementation of TaskScheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Submit(task scheduler.Task) bool {
	args := m.Called(task)
	return args.Bool(0)
}
