package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/scheduler"
	"github.com/bilalmirza74/fides/internal/service/mocks"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

func TestDispatch_UnknownPolicyKey(t *testing.T) {
	policies := new(mocks.MockPolicyStore)
	policies.On("GetByKey", mock.Anything, "does-not-exist").Return(nil, nil)

	svc := NewPrivacyRequestService(nil, policies, nil, nil, nil, nil, newTestLogger())

	_, err := svc.Dispatch(context.Background(), "does-not-exist", "CRQ-1", []string{"PRH-1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, serviceerror.ErrPolicyNotFound))
	assert.Contains(t, err.Error(), "policy with key does-not-exist does not exist")
	policies.AssertExpectations(t)
}

func TestDispatch_CreatesLinkedPendingRequest(t *testing.T) {
	db, mockDB := newTestDB(t)
	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	policies := new(mocks.MockPolicyStore)
	policies.On("GetByKey", mock.Anything, "default_consent_policy").
		Return(&models.Policy{PolicyID: "POL-1", PolicyKey: "default_consent_policy"}, nil)

	var created *models.PrivacyRequest
	privacyRequests := new(mocks.MockPrivacyRequestStore)
	privacyRequests.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*models.PrivacyRequest)
		}).
		Return(nil)

	preferences := new(mocks.MockPreferenceStore)
	preferences.On("LinkPrivacyRequestWithTx", mock.Anything, mock.Anything, []string{"PRH-1", "PRH-2"}, mock.Anything).
		Return(nil)

	consentRequests := new(mocks.MockConsentRequestStore)
	consentRequests.On("LinkPrivacyRequestWithTx", mock.Anything, mock.Anything, "CRQ-1", mock.Anything).
		Return(nil)

	var queued scheduler.Task
	sched := new(mocks.MockScheduler)
	sched.On("Submit", mock.Anything).
		Run(func(args mock.Arguments) {
			queued = args.Get(0).(scheduler.Task)
		}).
		Return(true)

	svc := NewPrivacyRequestService(db, policies, privacyRequests, consentRequests, preferences, sched, newTestLogger())

	request, err := svc.Dispatch(context.Background(), "default_consent_policy", "CRQ-1", []string{"PRH-1", "PRH-2"})

	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, string(models.PrivacyRequestStatusPending), request.Status)
	assert.Equal(t, "POL-1", request.PolicyID)
	require.NotNil(t, created)
	assert.Equal(t, request.PrivacyRequestID, created.PrivacyRequestID)

	// the queued task moves the request into processing
	require.NotNil(t, queued)
	privacyRequests.On("UpdateStatus", mock.Anything, request.PrivacyRequestID,
		string(models.PrivacyRequestStatusInProcessing), mock.Anything).Return(nil)
	queued(context.Background())

	assert.NoError(t, mockDB.ExpectationsWereMet())
	privacyRequests.AssertExpectations(t)
	preferences.AssertExpectations(t)
	consentRequests.AssertExpectations(t)
}

func TestDispatch_FullQueueLeavesRequestPending(t *testing.T) {
	db, mockDB := newTestDB(t)
	mockDB.ExpectBegin()
	mockDB.ExpectCommit()

	policies := new(mocks.MockPolicyStore)
	policies.On("GetByKey", mock.Anything, "default_consent_policy").
		Return(&models.Policy{PolicyID: "POL-1", PolicyKey: "default_consent_policy"}, nil)

	privacyRequests := new(mocks.MockPrivacyRequestStore)
	privacyRequests.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	preferences := new(mocks.MockPreferenceStore)
	preferences.On("LinkPrivacyRequestWithTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	consentRequests := new(mocks.MockConsentRequestStore)
	consentRequests.On("LinkPrivacyRequestWithTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sched := new(mocks.MockScheduler)
	sched.On("Submit", mock.Anything).Return(false)

	svc := NewPrivacyRequestService(db, policies, privacyRequests, consentRequests, preferences, sched, newTestLogger())

	request, err := svc.Dispatch(context.Background(), "default_consent_policy", "CRQ-1", []string{"PRH-1"})

	require.NoError(t, err)
	assert.Equal(t, string(models.PrivacyRequestStatusPending), request.Status)
	privacyRequests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_RollsBackWhenLinkFails(t *testing.T) {
	db, mockDB := newTestDB(t)
	mockDB.ExpectBegin()
	mockDB.ExpectRollback()

	policies := new(mocks.MockPolicyStore)
	policies.On("GetByKey", mock.Anything, "default_consent_policy").
		Return(&models.Policy{PolicyID: "POL-1", PolicyKey: "default_consent_policy"}, nil)

	privacyRequests := new(mocks.MockPrivacyRequestStore)
	privacyRequests.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	preferences := new(mocks.MockPreferenceStore)
	preferences.On("LinkPrivacyRequestWithTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("link failed"))

	sched := new(mocks.MockScheduler)

	svc := NewPrivacyRequestService(db, policies, privacyRequests, nil, preferences, sched, newTestLogger())

	_, err := svc.Dispatch(context.Background(), "default_consent_policy", "CRQ-1", []string{"PRH-1"})

	assert.Error(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
	sched.AssertNotCalled(t, "Submit", mock.Anything)
}
