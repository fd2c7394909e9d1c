package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePreference_ValidValues(t *testing.T) {
	for _, preference := range []string{"opt_in", "opt_out", "acknowledge"} {
		t.Run(preference, func(t *testing.T) {
			assert.NoError(t, ValidatePreference(preference))
		})
	}
}

func TestValidatePreference_InvalidValues(t *testing.T) {
	for _, preference := range []string{"", "optin", "OPT_OUT", "use_default"} {
		t.Run(preference, func(t *testing.T) {
			assert.Error(t, ValidatePreference(preference))
		})
	}
}

func TestValidateConsentRequestID(t *testing.T) {
	assert.Error(t, ValidateConsentRequestID(""))
	assert.NoError(t, ValidateConsentRequestID("CRQ-123"))

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateConsentRequestID(string(long)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("test@email.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidatePageSize(t *testing.T) {
	assert.Equal(t, 50, ValidatePageSize(0))
	assert.Equal(t, 50, ValidatePageSize(-1))
	assert.Equal(t, 100, ValidatePageSize(500))
	assert.Equal(t, 25, ValidatePageSize(25))
}

func TestValidatePage(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 1, ValidatePage(-3))
	assert.Equal(t, 4, ValidatePage(4))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00 "))
}
