package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	"github.com/cigarcraft/cigar-commerce/internal/core/events"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
)

// WebhookHandler receives the gateway's out-of-band outcome notifications
// and drives the lifecycle manager. The checkout flow itself never settles a
// payment; this callback does.
type WebhookHandler struct {
	*transport.BaseHandler
	paymentService ServiceAPI
	eventBus       *events.EventBus
	logger         *slog.Logger
}

func NewWebhookHandler(baseHandler *transport.BaseHandler, paymentService ServiceAPI, eventBus *events.EventBus, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    baseHandler,
		paymentService: paymentService,
		eventBus:       eventBus,
		logger:         logger,
	}
}

type GatewayCallbackRequest struct {
	TransactionID  string  `json:"transaction_id"`
	Status         string  `json:"status"`
	Amount         float64 `json:"amount,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	Processor      string  `json:"processor,omitempty"`
	CardLastFour   string  `json:"card_last_four,omitempty"`
	CardType       string  `json:"card_type,omitempty"`
	CardholderName string  `json:"cardholder_name,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

type GatewayCallbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *WebhookHandler) HandleGatewayCallback(w http.ResponseWriter, r *http.Request) {
	var req GatewayCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("invalid gateway callback request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Info("received gateway callback",
		"transaction_id", req.TransactionID,
		"status", req.Status)

	if req.TransactionID == "" {
		h.logger.Error("gateway callback missing transaction_id")
		h.WriteError(w, http.StatusBadRequest, "transaction_id is required")
		return
	}

	if req.Status == "" {
		h.logger.Error("gateway callback missing status", "transaction_id", req.TransactionID)
		h.WriteError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.processGatewayCallback(&req); err != nil {
		h.logger.Error("failed to process gateway callback",
			"error", err,
			"transaction_id", req.TransactionID,
			"status", req.Status)
		h.WriteError(w, http.StatusInternalServerError, "failed to process gateway callback")
		return
	}

	response := GatewayCallbackResponse{
		Status:  "success",
		Message: "callback processed successfully",
	}

	h.WriteJSON(w, http.StatusOK, response)
}

func (h *WebhookHandler) processGatewayCallback(req *GatewayCallbackRequest) error {
	record, err := h.paymentService.GetByTransactionID(req.TransactionID)
	if err != nil {
		return fmt.Errorf("payment not found for transaction_id %s: %w", req.TransactionID, err)
	}

	internalStatus := MapGatewayStatus(req.Status)

	h.logger.Info("processing gateway callback for payment record",
		"payment_id", record.ID,
		"order_id", record.OrderID,
		"current_status", record.Status,
		"new_status", internalStatus)

	var errorMessage *string
	if req.ErrorMessage != "" {
		errorMessage = &req.ErrorMessage
	}

	updated, err := h.paymentService.UpdateStatus(record.ID, internalStatus, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	switch internalStatus {
	case paymentDatamodel.StatusCompleted:
		event := events.NewPaymentCompletedEvent(updated.ID, updated.OrderID, updated.TransactionID, updated.Amount)
		h.eventBus.Publish(context.Background(), event)
		h.logger.Info("published payment completed event", "event_id", event.EventID())
	case paymentDatamodel.StatusFailed:
		event := events.NewPaymentFailedEvent(updated.ID, updated.OrderID, updated.TransactionID, updated.Amount, req.ErrorMessage)
		h.eventBus.Publish(context.Background(), event)
		h.logger.Info("published payment failed event", "event_id", event.EventID())
	}

	return nil
}
