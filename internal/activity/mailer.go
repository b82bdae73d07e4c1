package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/zxrrcpandey/rahulops/internal/notify"
)

// Mailer contains activities for delivering queued notifications through the
// transactional email API.
type Mailer struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
}

// NewMailer creates a new Mailer activity struct.
func NewMailer(endpoint, apiKey, from string) *Mailer {
	return &Mailer{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
	}
}

// SendEmailParams holds parameters for the SendEmail activity.
type SendEmailParams struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Payload   map[string]string `json:"payload"`
}

type emailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendEmail renders the template for the notification kind and POSTs it to
// the email API. Template and 4xx failures are non-retryable.
func (a *Mailer) SendEmail(ctx context.Context, params SendEmailParams) error {
	msg, err := notify.Render(params.Kind, params.Payload)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("render notification", "TEMPLATE_ERROR", err)
	}

	body, err := json.Marshal(emailRequest{
		From:    a.from,
		To:      params.Recipient,
		Subject: msg.Subject,
		Text:    msg.Body,
	})
	if err != nil {
		return temporal.NewNonRetryableApplicationError("build email payload", "MARSHAL_ERROR", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return temporal.NewNonRetryableApplicationError("create email request", "REQUEST_ERROR", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("email POST to %s: %w", a.endpoint, err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("email API returned %d", resp.StatusCode),
			"CLIENT_ERROR", nil)
	}
	return fmt.Errorf("email API returned %d", resp.StatusCode)
}
