// Package notification delivers best-effort customer and professional
// notifications: status-update emails driven by domain events, plus the chat
// webhook channel used by the daily reminder sweep.
package notification

import (
	"context"
	"fmt"

	"homeserve_backend/internal/email"
	"homeserve_backend/internal/events"
	"homeserve_backend/platform/logger"

	"github.com/google/uuid"
)

// RequestDetails is the denormalized view a status-update email needs.
type RequestDetails struct {
	CustomerName  string
	CustomerEmail string
	ServiceName   string
}

// DetailsReader resolves the names and addresses behind a service request.
// Implemented by an adapter over the requests, identity, and catalog modules.
type DetailsReader interface {
	RequestDetails(ctx context.Context, requestID uuid.UUID) (RequestDetails, error)
}

// Module subscribes to request lifecycle events and emails customers.
// Delivery is best-effort: failures are retried a bounded number of times and
// then logged, never surfaced to the publishing transaction.
type Module struct {
	sender  email.Sender
	chat    *ChatClient
	details DetailsReader
	log     *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, chat *ChatClient, details DetailsReader, log *logger.Logger) *Module {
	return &Module{sender: sender, chat: chat, details: details, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// Chat exposes the chat client for the scheduler's sweeps.
func (m *Module) Chat() *ChatClient {
	return m.chat
}

// Sender exposes the email sender for the scheduler's sweeps.
func (m *Module) Sender() email.Sender {
	return m.sender
}

// RegisterHandlers subscribes to the request lifecycle events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.RequestAssigned{}.EventName(), m)
	bus.Subscribe(events.RequestRejected{}.EventName(), m)
	bus.Subscribe(events.RequestCompleted{}.EventName(), m)
}

// Handle routes events to the appropriate notification.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.RequestAssigned:
		return m.notifyStatus(ctx, e.RequestID, "assigned", "")
	case events.RequestRejected:
		return m.notifyStatus(ctx, e.RequestID, "rejected", e.Reason)
	case events.RequestCompleted:
		return m.notifyStatus(ctx, e.RequestID, "completed", "")
	default:
		return nil
	}
}

func (m *Module) notifyStatus(ctx context.Context, requestID uuid.UUID, status, reason string) error {
	details, err := m.details.RequestDetails(ctx, requestID)
	if err != nil {
		return fmt.Errorf("resolve request details: %w", err)
	}

	op := fmt.Sprintf("status email %s %s", status, requestID)
	return WithRetry(ctx, m.log, op, func() error {
		return m.sender.SendStatusUpdateEmail(ctx,
			details.CustomerEmail, details.CustomerName, details.ServiceName, status, reason)
	})
}
