package application

import (
	"context"
	"time"

	"github.com/davryn/identity-service/internal/domain/event"
)

// Mailer is the outbound mail transport. Implementations: Mailgun
// (direct), queue-backed (RabbitMQ + email worker), in-memory double.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EventPublisher delivers domain events to whatever subscribes to the
// event channel. Publish errors are surfaced, not swallowed.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt event.UserRegistered) error
}

// TokenStore maps opaque single-use tokens to user ids with a TTL.
// Redeem atomically consumes the token: a second redeem of the same
// token must fail with ErrResetTokenInvalid.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Redeem(ctx context.Context, token string) (string, error)
}
