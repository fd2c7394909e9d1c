package serviceerror

import (
	"errors"
	"fmt"
)

// ServiceError is a sentinel error carried by the preference workflow so that
// handlers can map outcomes to HTTP status codes with errors.Is
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Is matches any wrapped or annotated error against the sentinel by code
func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	// ErrNotFound indicates an unknown consent request or session
	ErrNotFound = &ServiceError{Code: "CSE-4040", Message: "not found"}

	// ErrIdentityMissing indicates the session's provided identity has no usable contact value
	ErrIdentityMissing = &ServiceError{Code: "CSE-4041", Message: "identity missing"}

	// ErrValidation indicates malformed or missing input
	ErrValidation = &ServiceError{Code: "CSE-4001", Message: "validation failed"}

	// ErrCodeExpired indicates no cached verification code exists for the session
	ErrCodeExpired = &ServiceError{Code: "CSE-4030", Message: "verification code expired"}

	// ErrIncorrectCode indicates the submitted verification code does not match
	ErrIncorrectCode = &ServiceError{Code: "CSE-4031", Message: "incorrect identification code"}

	// ErrAttemptLimit indicates the verification attempt limit was reached and the code purged
	ErrAttemptLimit = &ServiceError{Code: "CSE-4032", Message: "verification attempt limit exceeded"}

	// ErrInvalidNotice indicates a duplicate or unresolvable privacy notice history id
	ErrInvalidNotice = &ServiceError{Code: "CSE-4042", Message: "invalid or duplicate privacy notice history"}

	// ErrPolicyNotFound indicates the policy key did not resolve; recorded preferences are kept
	ErrPolicyNotFound = &ServiceError{Code: "CSE-4043", Message: "policy not found"}
)

// Annotate wraps a sentinel with a call-site detail message. errors.Is on the
// result still matches the sentinel.
func Annotate(sentinel *ServiceError, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
