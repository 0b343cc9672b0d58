package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// Sender delivers messages outside the application.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

// Publisher stores in-app notifications and forwards them to a Sender.
// Delivery failures are logged and not returned.
type Publisher struct {
	repo   repository.NotificationRepository
	sender Sender
	logger *slog.Logger
}

// NewPublisher creates a publisher. sender may be nil.
func NewPublisher(repo repository.NotificationRepository, sender Sender, logger *slog.Logger) *Publisher {
	return &Publisher{repo: repo, sender: sender, logger: logger}
}

// Publish records n and pushes it to the outbound channels.
func (p *Publisher) Publish(ctx context.Context, n *model.Notification) error {
	const op = "notification.Publish"

	if err := p.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.logger.Info("notification created", "id", n.ID, "type", n.Type, "entity", n.RelatedEntityID)

	if p.sender == nil || !p.sender.Enabled() {
		return nil
	}
	if err := p.sender.Send(ctx, MessageFor(n)); err != nil {
		p.logger.Warn("notification delivery failed", "id", n.ID, "error", err)
	}
	return nil
}
