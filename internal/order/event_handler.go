package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cigarcraft/cigar-commerce/internal/core/events"
)

// EventHandler transitions orders when payment outcomes arrive on the bus.
// Keeping the order side event-driven means the payment package never needs
// to know order statuses exist.
type EventHandler struct {
	orders *Service
	logger *slog.Logger
}

func NewEventHandler(orders *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		orders: orders,
		logger: logger,
	}
}

func (h *EventHandler) HandlePaymentCompleted(ctx context.Context, event events.Event) error {
	completed, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment completed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}

	h.logger.Info("marking order paid",
		"order_id", completed.OrderID,
		"payment_id", completed.PaymentID)

	return h.orders.MarkPaid(completed.OrderID)
}

func (h *EventHandler) HandlePaymentFailed(ctx context.Context, event events.Event) error {
	failed, ok := event.(*events.PaymentFailedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment failed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentFailedEvent, got %T", event)
	}

	h.logger.Info("marking order payment failed",
		"order_id", failed.OrderID,
		"payment_id", failed.PaymentID,
		"error_message", failed.ErrorMessage)

	return h.orders.MarkPaymentFailed(failed.OrderID)
}

// RegisterHandlers subscribes the order transitions to the payment events.
func (h *EventHandler) RegisterHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)
	eventBus.Subscribe(events.EventTypePaymentFailed, h.HandlePaymentFailed)
	h.logger.Info("order event handlers registered")
}
