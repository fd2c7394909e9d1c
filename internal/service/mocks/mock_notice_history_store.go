package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bilalmirza74/fides/internal/models"
)

// MockNoticeHistoryStore is a mock implementation of NoticeHistoryStore
type MockNoticeHistoryStore struct {
	mock.Mock
}

func (m *MockNoticeHistoryStore) GetByIDs(ctx context.Context, noticeHistoryIDs []string) (map[string]*models.PrivacyNoticeHistory, error) {
	args := m.Called(ctx, noticeHistoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.PrivacyNoticeHistory), args.Error(1)
}
