package payment

import (
	"time"

	errors "github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/core/common/validation"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
)

// RefundRequest is the inbound refund payload.
type RefundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (r *RefundRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", r.Amount).PositiveAmount(errors.ErrCodeInvalidAmount)
	validator.Field("reason", r.Reason).Required().MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// PaymentView is the outward shape of a payment record. Card metadata stays
// masked, billing detail and gateway internals are not exposed.
type PaymentView struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	TransactionID string     `json:"transaction_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Processor     *string    `json:"processor,omitempty"`
	CardLastFour  *string    `json:"card_last_four,omitempty"`
	CardType      *string    `json:"card_type,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	RefundAmount  *float64   `json:"refund_amount,omitempty"`
	RefundReason  *string    `json:"refund_reason,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToView(p *paymentDatamodel.Payment) PaymentView {
	return PaymentView{
		ID:            p.ID,
		OrderID:       p.OrderID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentMethod: p.PaymentMethod,
		Processor:     p.Processor,
		CardLastFour:  p.CardLastFour,
		CardType:      p.CardType,
		Status:        p.Status,
		ErrorMessage:  p.ErrorMessage,
		RefundAmount:  p.RefundAmount,
		RefundReason:  p.RefundReason,
		ProcessedAt:   p.ProcessedAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func ToViews(payments []*paymentDatamodel.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, ToView(p))
	}
	return views
}
