package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errors "github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/core/events"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	transport.BaseHandler
	PaymentService ServiceAPI
	EventBus       *events.EventBus
	Logger         *slog.Logger
}

func NewHandler(paymentService ServiceAPI, eventBus *events.EventBus, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:    transport.BaseHandler{Logger: logger},
		PaymentService: paymentService,
		EventBus:       eventBus,
		Logger:         logger,
	}
}

// RefundPayment handles POST /api/v1/payments/{id}/refund
func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.HandleError(w, errors.NewValidationError("invalid payment id", errors.ErrCodeValidationFailed))
		return
	}

	var req RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("RefundPayment: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := req.Validate(); err != nil {
		h.Logger.Error("RefundPayment: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	p, svcErr := h.PaymentService.Refund(id, req.Amount, req.Reason)
	if svcErr != nil {
		h.Logger.Error("RefundPayment: service error", "error", svcErr, "payment_id", id)
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("RefundPayment: refund applied",
		"payment_id", id,
		"refund_amount", req.Amount)

	h.EventBus.Publish(r.Context(),
		events.NewPaymentRefundedEvent(p.ID, p.OrderID, req.Amount, req.Reason))

	h.WriteJSON(w, http.StatusOK, ToView(p))
}

// GetOrderPayments handles GET /api/v1/payments/order/{orderId}
func (h *Handler) GetOrderPayments(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		h.HandleError(w, errors.NewValidationError("invalid order id", errors.ErrCodeValidationFailed))
		return
	}

	payments, svcErr := h.PaymentService.GetByOrderID(orderID)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToViews(payments))
}

// GetStats handles GET /api/v1/payments/stats?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		h.HandleError(w, errors.NewValidationError("invalid from date", errors.ErrCodeInvalidDateRange))
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		h.HandleError(w, errors.NewValidationError("invalid to date", errors.ErrCodeInvalidDateRange))
		return
	}

	// default to the trailing 30 days when the range is open-ended
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	stats, svcErr := h.PaymentService.Aggregate(from, to)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
