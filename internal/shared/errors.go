package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrTenantMissing occurs when a request carries no tenant identifier.
	ErrTenantMissing = errors.New("tenant identifier missing")
)

// UserSafeMessage maps internal errors to messages suitable for API clients.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrTenantMissing):
		return "A tenant identifier is required."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
