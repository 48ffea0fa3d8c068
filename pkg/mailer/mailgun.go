package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends plain-text mail through the Mailgun API. It satisfies
// the application mail transport.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, body string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, body, to)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
