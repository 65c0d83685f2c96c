package metrics

import (
	"context"
	"errors"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Error type constants for metrics labels.
const (
	ErrorTypeAuth      = "auth"
	ErrorTypeConflict  = "conflict"
	ErrorTypeRateLimit = "rate_limit"
	ErrorTypeServer    = "server_error"
	ErrorTypeInvalid   = "invalid"
	ErrorTypeTimeout   = "timeout"
	ErrorTypeNetwork   = "network"
	ErrorTypeUnknown   = "unknown"
)

// ClassifyPublishError classifies an error from a databag write for metrics labeling.
// Returns an empty string for nil errors.
func ClassifyPublishError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case apierrors.IsUnauthorized(err) || apierrors.IsForbidden(err):
		return ErrorTypeAuth
	case apierrors.IsConflict(err) || apierrors.IsAlreadyExists(err):
		return ErrorTypeConflict
	case apierrors.IsTooManyRequests(err):
		return ErrorTypeRateLimit
	case apierrors.IsInvalid(err) || apierrors.IsBadRequest(err):
		return ErrorTypeInvalid
	case apierrors.IsTimeout(err) || apierrors.IsServerTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case apierrors.IsInternalError(err) || apierrors.IsServiceUnavailable(err):
		return ErrorTypeServer
	}

	return classifyByErrorMessage(err.Error())
}

func classifyByErrorMessage(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "timeout") || strings.Contains(errLower, "deadline"):
		return ErrorTypeTimeout
	case strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "no such host"):
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}
