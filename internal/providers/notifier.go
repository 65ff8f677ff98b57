package providers

import (
	"context"

	"gabber/annotator/internal/logging"
)

// ActionEmail is the single transactional template: a greeting, a call to
// action button and text around it
type ActionEmail struct {
	Subject     string `json:"subject"`
	Name        string `json:"name"`
	TopBody     string `json:"top_body"`
	ButtonURL   string `json:"button_url"`
	ButtonLabel string `json:"button_label"`
	BottomBody  string `json:"bottom_body"`
}

// Notifier delivers outbound messages. Callers treat failures as non-fatal.
type Notifier interface {
	SendActionEmail(ctx context.Context, recipient string, email ActionEmail) error
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// LogNotifier writes notifications to the log; used when no relay is configured
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) SendActionEmail(_ context.Context, recipient string, email ActionEmail) error {
	logging.Info("Action email (not delivered)",
		"recipient", recipient,
		"subject", email.Subject,
		"button_url", email.ButtonURL,
	)
	return nil
}

func (LogNotifier) SendPush(_ context.Context, deviceToken, title, body string, data map[string]string) error {
	logging.Info("Push notification (not delivered)",
		"title", title,
		"body", body,
		"data", data,
	)
	return nil
}
