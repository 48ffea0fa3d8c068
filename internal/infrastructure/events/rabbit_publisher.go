package events

import (
	"context"

	"github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/internal/domain/event"
	"github.com/davryn/identity-service/pkg/helpers"
)

// RabbitPublisher delivers domain events to a durable RabbitMQ queue.
type RabbitPublisher struct {
	pub *helpers.RabbitPublisher
}

func NewRabbitPublisher(pub *helpers.RabbitPublisher) *RabbitPublisher {
	return &RabbitPublisher{pub: pub}
}

func (p *RabbitPublisher) PublishUserRegistered(ctx context.Context, evt event.UserRegistered) error {
	return p.pub.PublishJSON(ctx, evt)
}

var _ application.EventPublisher = (*RabbitPublisher)(nil)
