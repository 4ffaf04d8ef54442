package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Notifier delivers customer-facing booking emails. Delivery is best
// effort; a failed email never fails the booking operation that sent it.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends mail through an SMTP relay
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(cfg *SMTPConfig) (*SMTPNotifier, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// Send delivers one email. The context is honored before dialing; gomail
// itself does not take one.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoOpNotifier drops all mail. Used when SMTP is not configured.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a notifier that discards everything
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send discards the message
func (n *NoOpNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	return nil
}
