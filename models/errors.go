package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind discriminates engine failures so handlers and the UI can react
// uniformly (redirect, refresh, retry) instead of pattern-matching messages.
type ErrorKind string

const (
	KindUnauthenticated      ErrorKind = "UNAUTHENTICATED"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindDuplicateInvitation  ErrorKind = "DUPLICATE_INVITATION"
	KindDuplicateApplication ErrorKind = "DUPLICATE_APPLICATION"
	KindInvalidState         ErrorKind = "INVALID_STATE"
	KindCapacityExceeded     ErrorKind = "CAPACITY_EXCEEDED"
	KindNetworkFailure       ErrorKind = "NETWORK_FAILURE"
	KindValidationFailure    ErrorKind = "VALIDATION_FAILURE"
)

// EngineError is the discriminated result every state-machine transition
// returns on failure. Transitions never fail silently.
type EngineError struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, usually a transport error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

// E builds an EngineError without an underlying cause.
func E(kind ErrorKind, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapE attaches an underlying cause (e.g., a failed collaborator call).
func WrapE(kind ErrorKind, err error, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from any error in the chain. Unknown errors
// are treated as network failures: the retryable bucket.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindNetworkFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status the HTTP surface responds with.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindUnauthorized:
		return fiber.StatusForbidden
	case KindDuplicateInvitation, KindDuplicateApplication, KindCapacityExceeded, KindInvalidState:
		return fiber.StatusConflict
	case KindValidationFailure:
		return fiber.StatusBadRequest
	case KindNetworkFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
