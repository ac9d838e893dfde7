package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkly-be/internal/urlutil"
)

var (
	// ErrInvalidURL marks user input that is not an absolute http(s) URL.
	ErrInvalidURL = urlutil.ErrInvalidURL
	// ErrUnauthenticated is returned when no valid identity accompanies the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound is returned when the resource id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps every backing store failure. Callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCodeSpaceExhausted is returned when no free short code turned up within the attempt budget.
	ErrCodeSpaceExhausted = fmt.Errorf("%w: no free short code found", ErrStoreUnavailable)

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// storeError tags a store failure with ErrStoreUnavailable, keeping the cause in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
