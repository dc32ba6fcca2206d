package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := fmt.Errorf("fetch failed: %w", err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	err := NewRateLimitErrorWithRetry("too many requests", 5*time.Second)

	expected := "too many requests (retry after 5s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestCatalogUnavailableError(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := NewCatalogUnavailableError(3, cause)

	if !IsCatalogUnavailable(err) {
		t.Fatalf("IsCatalogUnavailable returned false for CatalogUnavailableError")
	}

	wrapped := fmt.Errorf("resolve: %w", err)
	if !IsCatalogUnavailable(wrapped) {
		t.Fatalf("IsCatalogUnavailable returned false for wrapped error")
	}

	if !stdErrors.Is(err, cause) {
		t.Fatalf("CatalogUnavailableError did not unwrap to its cause")
	}

	if IsCatalogUnavailable(stdErrors.New("other")) {
		t.Fatalf("IsCatalogUnavailable returned true for unrelated error")
	}
}

func TestUserAbortError(t *testing.T) {
	err := NewUserAbortError("selection aborted")

	if err.Error() != "selection aborted" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "selection aborted")
	}

	if !IsUserAbort(err) {
		t.Fatalf("IsUserAbort returned false for UserAbortError")
	}

	wrapped := fmt.Errorf("interactive search: %w", err)
	if !IsUserAbort(wrapped) {
		t.Fatalf("IsUserAbort returned false for wrapped UserAbortError")
	}
}
