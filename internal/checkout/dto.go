package checkout

import (
	apperrors "github.com/cigarcraft/cigar-commerce/internal"
)

type CreateSessionRequest struct {
	OrderID int64 `json:"order_id"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.OrderID <= 0 {
		return apperrors.NewValidationFieldError("order_id", "order_id must be a positive integer", apperrors.ErrCodeValidationFailed)
	}
	return nil
}

// Session is the caller-facing result of a checkout session request. The
// token is echoed alongside the URL so API clients can build their own
// redirect if they need to.
type Session struct {
	OrderID     int64   `json:"order_id"`
	PaymentID   int64   `json:"payment_id"`
	Token       string  `json:"token"`
	Amount      float64 `json:"amount"`
	CheckoutURL string  `json:"checkout_url"`
}
