package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RelayProvider posts notifications to an HTTP mail/push relay
type RelayProvider struct {
	MailURL string
	PushURL string
	APIKey  string
	Client  *http.Client
}

var _ Notifier = (*RelayProvider)(nil)

// NewRelayProvider creates a relay client; an empty pushURL disables push
func NewRelayProvider(mailURL, pushURL, apiKey string) *RelayProvider {
	return &RelayProvider{
		MailURL: mailURL,
		PushURL: pushURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type relayEmailReq struct {
	To string `json:"to"`
	ActionEmail
}

type relayPushReq struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// SendActionEmail submits one templated email
func (p *RelayProvider) SendActionEmail(ctx context.Context, recipient string, email ActionEmail) error {
	if p.MailURL == "" {
		return &ProviderError{Code: ErrCodeNotConfigured, Message: "mail relay URL is not set"}
	}
	_, err := p.doPost(ctx, p.MailURL, relayEmailReq{To: recipient, ActionEmail: email})
	return err
}

// SendPush submits one push message
func (p *RelayProvider) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if p.PushURL == "" {
		return &ProviderError{Code: ErrCodeNotConfigured, Message: "push relay URL is not set"}
	}
	_, err := p.doPost(ctx, p.PushURL, relayPushReq{Token: deviceToken, Title: title, Body: body, Data: data})
	return err
}

// doPost performs a POST request with authentication and JSON body
func (p *RelayProvider) doPost(ctx context.Context, url string, payload interface{}) (int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &ProviderError{
			Code:    ErrCodeNetworkError,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &ProviderError{
			Code:    ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	// Set headers
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    ErrCodeNetworkError,
			Message: "Relay unreachable",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, buildHTTPError(resp.StatusCode, url, string(bodyBytes))
	}

	return resp.StatusCode, nil
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    ErrCodeInvalidAPIKey,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    ErrCodeRateLimited,
			Message: "Relay rate limit exceeded",
			Details: body,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ProviderError{
			Code:    ErrCodeRejected,
			Message: fmt.Sprintf("Relay rejected message to %s", endpoint),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}
