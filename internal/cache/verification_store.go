package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// codeEntry is the (code, attempt count) unit for one consent request. The
// pair is always read and mutated together under the store mutex.
type codeEntry struct {
	code      string
	attempts  int
	expiresAt time.Time
}

// VerificationCodeStore holds short-lived identity verification codes keyed
// by consent request id, bounded by a TTL and an attempt limit.
type VerificationCodeStore struct {
	mu           sync.Mutex
	entries      map[string]*codeEntry
	ttl          time.Duration
	attemptLimit int
	logger       *logrus.Logger

	// now is swappable for expiry tests
	now func() time.Time
}

// NewVerificationCodeStore creates a verification code store
func NewVerificationCodeStore(ttl time.Duration, attemptLimit int, logger *logrus.Logger) *VerificationCodeStore {
	return &VerificationCodeStore{
		entries:      make(map[string]*codeEntry),
		ttl:          ttl,
		attemptLimit: attemptLimit,
		logger:       logger,
		now:          time.Now,
	}
}

// CacheCode stores a verification code for a consent request with zero attempts
func (s *VerificationCodeStore) CacheCode(consentRequestID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[consentRequestID] = &codeEntry{
		code:      code,
		attempts:  0,
		expiresAt: s.now().Add(s.ttl),
	}
}

// GetCode returns the cached code for a consent request, or empty string if
// absent or expired
func (s *VerificationCodeStore) GetCode(consentRequestID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.liveEntry(consentRequestID)
	if entry == nil {
		return ""
	}
	return entry.code
}

// AttemptCount returns the current attempt count for a consent request
func (s *VerificationCodeStore) AttemptCount(consentRequestID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.liveEntry(consentRequestID)
	if entry == nil {
		return 0
	}
	return entry.attempts
}

// Verify checks a submitted code against the cached one for a consent request.
// Absent or expired codes fail with ErrCodeExpired. A mismatch increments the
// attempt counter; once the counter reaches the limit the entry is purged and
// every further call fails with ErrAttemptLimit until a fresh code is cached.
// A match purges the entry so the code cannot be replayed.
func (s *VerificationCodeStore) Verify(consentRequestID, submittedCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.liveEntry(consentRequestID)
	if entry == nil {
		return serviceerror.Annotate(serviceerror.ErrCodeExpired,
			"no verification code cached for '%s'", consentRequestID)
	}

	if entry.attempts >= s.attemptLimit {
		// Limit already hit: purge code and counter together so the session
		// cannot be retried with the old code
		delete(s.entries, consentRequestID)
		s.logger.WithField("consent_request_id", consentRequestID).
			Warn("Verification attempt limit exceeded, purging cached code")
		return serviceerror.Annotate(serviceerror.ErrAttemptLimit,
			"attempt limit hit for '%s'", consentRequestID)
	}

	if entry.code != submittedCode {
		entry.attempts++
		return serviceerror.Annotate(serviceerror.ErrIncorrectCode,
			"incorrect identification code for '%s'", consentRequestID)
	}

	// Success clears code and counter atomically
	delete(s.entries, consentRequestID)
	return nil
}

// Purge removes any cached entry for a consent request
func (s *VerificationCodeStore) Purge(consentRequestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, consentRequestID)
}

// liveEntry returns the entry for a key, lazily evicting it when expired.
// Caller must hold the mutex.
func (s *VerificationCodeStore) liveEntry(consentRequestID string) *codeEntry {
	entry, ok := s.entries[consentRequestID]
	if !ok {
		return nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, consentRequestID)
		return nil
	}
	return entry
}
