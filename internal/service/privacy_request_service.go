package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
	"github.com/bilalmirza74/fides/pkg/utils"
)

// PrivacyRequestService creates the downstream privacy request that carries
// a consent submission to connected systems and hands it to the scheduler
type PrivacyRequestService struct {
	db              *database.DB
	policies        PolicyStore
	privacyRequests PrivacyRequestStore
	consentRequests ConsentRequestStore
	preferences     PreferenceStore
	scheduler       TaskScheduler
	logger          *logrus.Logger
}

// NewPrivacyRequestService creates a new privacy request service
func NewPrivacyRequestService(db *database.DB, policies PolicyStore, privacyRequests PrivacyRequestStore,
	consentRequests ConsentRequestStore, preferences PreferenceStore, sched TaskScheduler, logger *logrus.Logger) *PrivacyRequestService {
	return &PrivacyRequestService{
		db:              db,
		policies:        policies,
		privacyRequests: privacyRequests,
		consentRequests: consentRequests,
		preferences:     preferences,
		scheduler:       sched,
		logger:          logger,
	}
}

// Dispatch resolves the policy, creates one pending privacy request shared
// by every preference history in the submission, links it to the histories
// and to the consent request, then queues asynchronous processing. The
// consent request link is set only on the first dispatch for that request.
func (s *PrivacyRequestService) Dispatch(ctx context.Context, policyKey, consentRequestID string, preferenceHistoryIDs []string) (*models.PrivacyRequest, error) {
	policy, err := s.policies.GetByKey(ctx, policyKey)
	if err != nil {
		s.logger.WithError(err).WithField("policyKey", policyKey).Error("Failed to look up policy")
		return nil, fmt.Errorf("failed to look up policy: %w", err)
	}
	if policy == nil {
		return nil, serviceerror.Annotate(serviceerror.ErrPolicyNotFound, "policy with key %s does not exist", policyKey)
	}

	now := utils.GetCurrentTimeMillis()
	request := &models.PrivacyRequest{
		PrivacyRequestID: utils.GeneratePrivacyRequestID(),
		PolicyID:         policy.PolicyID,
		Status:           string(models.PrivacyRequestStatusPending),
		CreatedTime:      now,
		UpdatedTime:      now,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.privacyRequests.CreateWithTx(ctx, tx, request); err != nil {
			return fmt.Errorf("failed to create privacy request: %w", err)
		}
		if err := s.preferences.LinkPrivacyRequestWithTx(ctx, tx, preferenceHistoryIDs, request.PrivacyRequestID); err != nil {
			return fmt.Errorf("failed to link preference histories: %w", err)
		}
		if err := s.consentRequests.LinkPrivacyRequestWithTx(ctx, tx, consentRequestID, request.PrivacyRequestID); err != nil {
			return fmt.Errorf("failed to link consent request: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("consentRequestId", consentRequestID).Error("Failed to dispatch privacy request")
		return nil, err
	}

	s.queueProcessing(request.PrivacyRequestID)

	s.logger.WithFields(logrus.Fields{
		"privacyRequestId": request.PrivacyRequestID,
		"consentRequestId": consentRequestID,
		"policyKey":        policyKey,
		"histories":        len(preferenceHistoryIDs),
	}).Info("Dispatched privacy request")

	return request, nil
}

// queueProcessing hands the request to the worker pool. A full queue is
// logged and the request stays pending until retried out of band.
func (s *PrivacyRequestService) queueProcessing(privacyRequestID string) {
	submitted := s.scheduler.Submit(func(ctx context.Context) {
		err := s.privacyRequests.UpdateStatus(ctx, privacyRequestID,
			string(models.PrivacyRequestStatusInProcessing), utils.GetCurrentTimeMillis())
		if err != nil {
			s.logger.WithError(err).WithField("privacyRequestId", privacyRequestID).Error("Failed to start privacy request processing")
		}
	})
	if !submitted {
		s.logger.WithField("privacyRequestId", privacyRequestID).Warn("Scheduler queue full, privacy request left pending")
	}
}
