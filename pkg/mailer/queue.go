package mailer

import (
	"context"

	"github.com/davryn/identity-service/pkg/helpers"
)

// QueueMailer enqueues mail as EmailJob messages instead of sending
// inline; the email worker drains the queue and calls Mailgun. Send
// returns once the broker has accepted the message.
type QueueMailer struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueMailer(pub *helpers.RabbitPublisher) *QueueMailer {
	return &QueueMailer{Pub: pub}
}

func (q *QueueMailer) Send(ctx context.Context, to, subject, body string) error {
	return q.Pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, Body: body})
}
