package providers

import "fmt"

// Codes carried by ProviderError; they never reach API clients
const (
	ErrCodeNotConfigured = "NOT_CONFIGURED"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeRejected      = "REJECTED"
	ErrCodeStorage       = "STORAGE_ERROR"
)

// ProviderError describes a failed call to an external collaborator
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
