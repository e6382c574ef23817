package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the provider rejects the API key.
	ErrUnauthorized = errors.New("provider rejected credentials")

	// ErrUnavailable is returned when the provider cannot be reached at all.
	ErrUnavailable = errors.New("provider unavailable")
)

// APIError is a non-2xx provider response other than an authentication
// failure. It carries the upstream status code and the raw error body so the
// merchant API can forward them.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Body)
}
