package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/cache"
	"github.com/bilalmirza74/fides/internal/config"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
	"github.com/bilalmirza74/fides/pkg/utils"
)

// ConsentService orchestrates the consent workflow: code verification,
// preference recording, and privacy request dispatch
type ConsentService struct {
	consentRequests ConsentRequestStore
	identities      IdentityStore
	codes           *cache.VerificationCodeStore
	recorder        *PreferenceService
	dispatcher      *PrivacyRequestService
	security        *config.SecurityConfig
	logger          *logrus.Logger
}

// NewConsentService creates a new consent service
func NewConsentService(consentRequests ConsentRequestStore, identities IdentityStore, codes *cache.VerificationCodeStore,
	recorder *PreferenceService, dispatcher *PrivacyRequestService, security *config.SecurityConfig, logger *logrus.Logger) *ConsentService {
	return &ConsentService{
		consentRequests: consentRequests,
		identities:      identities,
		codes:           codes,
		recorder:        recorder,
		dispatcher:      dispatcher,
		security:        security,
		logger:          logger,
	}
}

// CreateConsentRequest opens a consent session for the given email. When
// identity verification is enabled a one-time code is generated and cached
// against the new request; delivery is out of scope so the code is only
// logged at debug level.
func (s *ConsentService) CreateConsentRequest(ctx context.Context, email string) (*models.ConsentRequest, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, serviceerror.Annotate(serviceerror.ErrValidation, "invalid identity email: %v", err)
	}

	hashed := hashIdentityValue(email)
	identity := &models.ProvidedIdentity{
		IdentityID:  utils.GenerateIdentityID(),
		FieldName:   "email",
		FieldValue:  &email,
		HashedValue: &hashed,
		CreatedTime: utils.GetCurrentTimeMillis(),
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create provided identity: %w", err)
	}

	request := &models.ConsentRequest{
		ConsentRequestID: utils.GenerateConsentRequestID(),
		IdentityID:       identity.IdentityID,
		CreatedTime:      utils.GetCurrentTimeMillis(),
	}
	if err := s.consentRequests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create consent request: %w", err)
	}

	if s.security.IsVerificationRequired() {
		code, err := generateVerificationCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate verification code: %w", err)
		}
		s.codes.CacheCode(request.ConsentRequestID, code)
		s.logger.WithFields(logrus.Fields{
			"consentRequestId": request.ConsentRequestID,
			"code":             code,
		}).Debug("Cached verification code")
	}

	s.logger.WithField("consentRequestId", request.ConsentRequestID).Info("Created consent request")
	return request, nil
}

// SavePrivacyPreferences records a submission against a consent request.
// When subject identity verification is enabled the submitted code is
// checked first and a successful check stamps the verified time. Preferences
// are committed before dispatch, so an unknown policy key surfaces as an
// error while the recorded preferences stay persisted.
func (s *ConsentService) SavePrivacyPreferences(ctx context.Context, consentRequestID string, req *models.SavePreferencesRequest) ([]models.SavedPreferenceResponse, error) {
	request, err := s.consentRequests.GetByID(ctx, consentRequestID)
	if err != nil {
		return nil, err
	}

	if s.security.IsVerificationRequired() {
		if err := s.verifyCode(ctx, request, req.Code); err != nil {
			return nil, err
		}
	}

	identity, err := s.identities.GetByID(ctx, request.IdentityID)
	if err != nil {
		return nil, err
	}

	histories, noticeMap, err := s.recorder.Record(ctx, identity, req)
	if err != nil {
		return nil, err
	}

	responses := make([]models.SavedPreferenceResponse, 0, len(histories))
	historyIDs := make([]string, 0, len(histories))
	for i := range histories {
		responses = append(responses, models.SavedPreferenceResponse{
			PrivacyPreferenceHistoryID: histories[i].PreferenceHistoryID,
			Preference:                 histories[i].Preference,
			PrivacyNoticeHistory:       noticeMap[histories[i].NoticeHistoryID],
		})
		historyIDs = append(historyIDs, histories[i].PreferenceHistoryID)
	}

	if req.PolicyKey != "" {
		if _, err := s.dispatcher.Dispatch(ctx, req.PolicyKey, consentRequestID, historyIDs); err != nil {
			// preferences are already committed; the dispatch failure is
			// still the submission's outcome
			return nil, err
		}
	}

	return responses, nil
}

// VerifyAndListPreferences checks the submitted code, stamps the identity
// verified time, and returns the identity's current preferences newest first
func (s *ConsentService) VerifyAndListPreferences(ctx context.Context, consentRequestID, code string, page, size int) ([]models.CurrentPreferenceResponse, int, error) {
	request, err := s.consentRequests.GetByID(ctx, consentRequestID)
	if err != nil {
		return nil, 0, err
	}

	if err := s.verifyCode(ctx, request, code); err != nil {
		return nil, 0, err
	}

	identity, err := s.identities.GetByID(ctx, request.IdentityID)
	if err != nil {
		return nil, 0, err
	}
	if !identity.HasUsableValue() {
		return nil, 0, serviceerror.Annotate(serviceerror.ErrIdentityMissing, "no usable identity value on consent request")
	}

	return s.recorder.ListCurrentForIdentity(ctx, identity.IdentityID, page, size)
}

// verifyCode checks the code against the store and stamps the consent
// request's identity verified time on success
func (s *ConsentService) verifyCode(ctx context.Context, request *models.ConsentRequest, code string) error {
	if err := s.codes.Verify(request.ConsentRequestID, code); err != nil {
		return err
	}

	if err := s.consentRequests.MarkIdentityVerified(ctx, request.ConsentRequestID, utils.GetCurrentTimeMillis()); err != nil {
		s.logger.WithError(err).WithField("consentRequestId", request.ConsentRequestID).Error("Failed to stamp identity verified time")
		return fmt.Errorf("failed to stamp identity verified time: %w", err)
	}

	s.logger.WithField("consentRequestId", request.ConsentRequestID).Info("Consent request identity verified")
	return nil
}

func hashIdentityValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

