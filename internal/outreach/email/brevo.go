package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mesour/brick-offers-sub007/platform/config"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoSender delivers messages through the Brevo transactional email API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	endpoint  string
	client    *http.Client
}

// NewBrevoSender creates a sender from the Brevo portion of the email config.
func NewBrevoSender(cfg config.EmailConfig) *BrevoSender {
	return &BrevoSender{
		apiKey:    cfg.GetBrevoAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		endpoint:  brevoEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BrevoSender) Provider() string { return "brevo" }

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoEmailRequest struct {
	Sender      brevoRecipientSender `json:"sender"`
	To          []brevoRecipient     `json:"to"`
	Subject     string               `json:"subject"`
	HTMLContent string               `json:"htmlContent"`
}

type brevoRecipientSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (b *BrevoSender) Send(ctx context.Context, m Message) error {
	payload := brevoEmailRequest{
		Sender:      brevoRecipientSender{Name: b.fromName, Email: b.fromEmail},
		To:          []brevoRecipient{{Email: m.ToEmail, Name: m.ToName}},
		Subject:     m.Subject,
		HTMLContent: m.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
		// The API rejects bad or suppressed recipients with a 400; that
		// will not pass on retry. Auth, throttling, 5xx and transport
		// errors stay retryable.
		if resp.StatusCode == http.StatusBadRequest {
			return &PermanentError{Err: err}
		}
		return err
	}
	return nil
}
