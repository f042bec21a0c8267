package brain

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError reports a failed call to the generative endpoint. The
// status code is carried structurally so fallback selection never has to
// sniff error message text.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests
}

func IsAuthFailure(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden
}
