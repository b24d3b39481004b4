package payment

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// ValidStatus reports whether s is one of the lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Payment is one payment attempt against an order. The transaction id is
// assigned by the gateway, never by this service. Records are never deleted;
// a refund is a transition, not a removal.
type Payment struct {
	ID            int64   `gorm:"primaryKey"`
	OrderID       int64   `gorm:"column:order_id;not null;index:idx_payments_order_id"`
	TransactionID string  `gorm:"column:transaction_id;not null;uniqueIndex"`
	Amount        float64 `gorm:"column:amount;not null"`
	Currency      string  `gorm:"column:currency;default:USD"`
	PaymentMethod *string `gorm:"column:payment_method"`
	Processor     *string `gorm:"column:processor"`

	CardLastFour   *string `gorm:"column:card_last_four"`
	CardType       *string `gorm:"column:card_type"`
	CardholderName *string `gorm:"column:cardholder_name"`

	BillingStreet  *string `gorm:"column:billing_street"`
	BillingCity    *string `gorm:"column:billing_city"`
	BillingState   *string `gorm:"column:billing_state"`
	BillingZip     *string `gorm:"column:billing_zip"`
	BillingCountry *string `gorm:"column:billing_country"`

	Status       string   `gorm:"column:status;default:pending"`
	ErrorMessage *string  `gorm:"column:error_message"`
	RefundAmount *float64 `gorm:"column:refund_amount"`
	RefundReason *string  `gorm:"column:refund_reason"`

	ProcessedAt *time.Time `gorm:"column:processed_at"`
	RefundedAt  *time.Time `gorm:"column:refunded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}

// CanRefund reports whether a refund may be applied. Only completed payments
// are refundable; refunded is terminal.
func (p *Payment) CanRefund() bool {
	return p.Status == StatusCompleted
}
