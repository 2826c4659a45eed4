// Package email delivers offer emails through a pluggable provider.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesour/brick-offers-sub007/platform/config"
)

// Message is one outbound offer email, fully rendered.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers rendered messages. Implementations: SMTP, Brevo, Noop.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// PermanentError marks a delivery failure the provider reports as final,
// such as an SMTP 5xx reply for an unknown mailbox. Retrying cannot succeed;
// the caller should treat the recipient as bounced.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err is a final delivery failure.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// NoopSender swallows messages. Used when email delivery is disabled so the
// rest of the outreach flow stays testable.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }
func (NoopSender) Provider() string                    { return "noop" }

// NewSender selects the delivery provider from configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "brevo":
		return NewBrevoSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}
