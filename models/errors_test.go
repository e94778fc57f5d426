package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestKindOf(t *testing.T) {
	err := E(KindCapacityExceeded, "team is full (%d/%d members)", 4, 4)
	if KindOf(err) != KindCapacityExceeded {
		t.Errorf("KindOf() = %s, want CAPACITY_EXCEEDED", KindOf(err))
	}

	// The kind survives wrapping.
	wrapped := fmt.Errorf("accept failed: %w", err)
	if KindOf(wrapped) != KindCapacityExceeded {
		t.Errorf("KindOf(wrapped) = %s, want CAPACITY_EXCEEDED", KindOf(wrapped))
	}

	// Unknown errors default to the retryable bucket.
	if KindOf(errors.New("connection reset")) != KindNetworkFailure {
		t.Errorf("KindOf(plain error) = %s, want NETWORK_FAILURE", KindOf(errors.New("x")))
	}
}

func TestWrapEUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := WrapE(KindNetworkFailure, cause, "POST /invitations")
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIsKind(t *testing.T) {
	if IsKind(nil, KindInvalidState) {
		t.Error("IsKind(nil, ...) = true, want false")
	}
	if !IsKind(E(KindUnauthorized, "not the leader"), KindUnauthorized) {
		t.Error("IsKind() = false for matching kind")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindUnauthenticated:      fiber.StatusUnauthorized,
		KindUnauthorized:         fiber.StatusForbidden,
		KindDuplicateInvitation:  fiber.StatusConflict,
		KindDuplicateApplication: fiber.StatusConflict,
		KindCapacityExceeded:     fiber.StatusConflict,
		KindInvalidState:         fiber.StatusConflict,
		KindValidationFailure:    fiber.StatusBadRequest,
		KindNetworkFailure:       fiber.StatusBadGateway,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}
