package pricing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
)

type ServiceAPI interface {
	Quote(selection Selection) (*Breakdown, error)
}

type Handler struct {
	transport.BaseHandler
	Engine ServiceAPI
	Logger *slog.Logger
}

func NewHandler(engine ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.BaseHandler{Logger: logger},
		Engine:      engine,
		Logger:      logger,
	}
}

// QuotePrice handles POST /api/v1/pricing/quote
func (h *Handler) QuotePrice(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("QuotePrice: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := req.Validate(); err != nil {
		h.Logger.Error("QuotePrice: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	breakdown, err := h.Engine.Quote(req.ToSelection())
	if err != nil {
		h.Logger.Error("QuotePrice: pricing failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, breakdown)
}
