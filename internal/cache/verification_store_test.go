package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalmirza74/fides/internal/serviceerror"
)

func newTestStore(limit int) *VerificationCodeStore {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewVerificationCodeStore(10*time.Minute, limit, logger)
}

func TestVerify_NoCachedCode(t *testing.T) {
	store := newTestStore(3)

	err := store.Verify("CRQ-1", "abcd")
	assert.ErrorIs(t, err, serviceerror.ErrCodeExpired)
}

func TestVerify_Success_ClearsCodeAndCounter(t *testing.T) {
	store := newTestStore(3)
	store.CacheCode("CRQ-1", "abcd")

	// One failed attempt first
	err := store.Verify("CRQ-1", "wrong")
	assert.ErrorIs(t, err, serviceerror.ErrIncorrectCode)
	assert.Equal(t, 1, store.AttemptCount("CRQ-1"))

	require.NoError(t, store.Verify("CRQ-1", "abcd"))
	assert.Equal(t, "", store.GetCode("CRQ-1"))
	assert.Equal(t, 0, store.AttemptCount("CRQ-1"))

	// Code cannot be replayed after a successful verification
	assert.ErrorIs(t, store.Verify("CRQ-1", "abcd"), serviceerror.ErrCodeExpired)
}

func TestVerify_AttemptLimit(t *testing.T) {
	limit := 3
	store := newTestStore(limit)
	store.CacheCode("CRQ-1", "abcd")

	for i := 0; i < limit; i++ {
		err := store.Verify("CRQ-1", "987632")
		assert.ErrorIs(t, err, serviceerror.ErrIncorrectCode)
	}
	assert.Equal(t, limit, store.AttemptCount("CRQ-1"))

	// Correct code no longer helps once the limit is reached
	err := store.Verify("CRQ-1", "abcd")
	assert.ErrorIs(t, err, serviceerror.ErrAttemptLimit)

	// Code and counter purged together
	assert.Equal(t, "", store.GetCode("CRQ-1"))
	assert.Equal(t, 0, store.AttemptCount("CRQ-1"))
}

func TestVerify_ExpiredCode(t *testing.T) {
	store := newTestStore(3)
	store.CacheCode("CRQ-1", "abcd")

	current := time.Now()
	store.now = func() time.Time { return current.Add(11 * time.Minute) }

	assert.Equal(t, "", store.GetCode("CRQ-1"))
	assert.ErrorIs(t, store.Verify("CRQ-1", "abcd"), serviceerror.ErrCodeExpired)
}

func TestCacheCode_ResetsAttempts(t *testing.T) {
	store := newTestStore(3)
	store.CacheCode("CRQ-1", "abcd")
	_ = store.Verify("CRQ-1", "wrong")
	_ = store.Verify("CRQ-1", "wrong")

	store.CacheCode("CRQ-1", "efgh")
	assert.Equal(t, 0, store.AttemptCount("CRQ-1"))
	assert.NoError(t, store.Verify("CRQ-1", "efgh"))
}

func TestVerify_ConcurrentAttemptsStayBounded(t *testing.T) {
	limit := 5
	store := newTestStore(limit)
	store.CacheCode("CRQ-1", "abcd")

	var wg sync.WaitGroup
	results := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Verify("CRQ-1", "wrong")
		}()
	}
	wg.Wait()
	close(results)

	incorrect := 0
	for err := range results {
		require.Error(t, err)
		if errors.Is(err, serviceerror.ErrIncorrectCode) {
			incorrect++
		}
	}
	assert.Equal(t, limit, incorrect, "exactly limit mismatches counted before cutoff")
}
