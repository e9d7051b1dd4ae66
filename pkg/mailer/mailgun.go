package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// defaultSendTimeout bounds one delivery attempt; the worker nacks and
// requeues on timeout.
const defaultSendTimeout = 10 * time.Second

// Mailgun delivers the transactional mail this service sends (currently
// only the signup welcome message). The client is built once and reused
// by the email worker.
type Mailgun struct {
	client  *mg.MailgunImpl
	sender  string
	timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{
		client:  mg.NewMailgun(domain, apiKey),
		sender:  sender,
		timeout: defaultSendTimeout,
	}
}

// Send delivers one message. html is optional; when present it rides
// alongside the plain-text part.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
