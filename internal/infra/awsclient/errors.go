// Where: internal/infra/awsclient/errors.go
// What: AWS error classification and the credential error type.
// Why: Tell transient failures apart from permanent ones across all clients.
package awsclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

var throttleCodes = map[string]struct{}{
	"Throttling":                             {},
	"ThrottlingException":                    {},
	"ThrottledException":                     {},
	"RequestThrottledException":              {},
	"TooManyRequestsException":               {},
	"ProvisionedThroughputExceededException": {},
	"RequestLimitExceeded":                   {},
	"RequestThrottled":                       {},
	"SlowDown":                               {},
	"PriorRequestNotComplete":                {},
	"TooManyUpdates":                         {},
}

// CredentialError reports a failed identity exchange. It is fatal for the
// whole invocation.
type CredentialError struct {
	RoleARN string
	Err     error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("assume role %s: %v", e.RoleARN, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the service error code of err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsThrottle reports whether err is a service throttling response.
func IsThrottle(err error) bool {
	_, ok := throttleCodes[ErrorCode(err)]
	return ok
}

// Retryable reports whether the call that produced err may be re-issued.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsThrottle(err) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) && status.HTTPStatusCode() >= 500 {
		return true
	}
	return false
}
