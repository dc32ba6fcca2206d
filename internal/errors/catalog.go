package errors

import (
	stdErrors "errors"
	"fmt"
)

// CatalogUnavailableError means the storefront catalog listing could not be
// loaded after exhausting all retry attempts. Resolution is impossible until
// a later load attempt succeeds.
type CatalogUnavailableError struct {
	Attempts int
	Err      error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// NewCatalogUnavailableError creates a CatalogUnavailableError recording the
// attempt count and the last underlying failure.
func NewCatalogUnavailableError(attempts int, err error) *CatalogUnavailableError {
	return &CatalogUnavailableError{Attempts: attempts, Err: err}
}

// IsCatalogUnavailable reports whether err is a CatalogUnavailableError
// (even when wrapped).
func IsCatalogUnavailable(err error) bool {
	var catErr *CatalogUnavailableError
	return stdErrors.As(err, &catErr)
}
