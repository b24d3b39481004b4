package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
	EventTypePaymentRefunded  = "payment.refunded"
)

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID     int64   `json:"payment_id"`
	OrderID       int64   `json:"order_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

func NewPaymentCompletedEvent(paymentID, orderID int64, transactionID string, amount float64) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"order_id":       orderID,
				"transaction_id": transactionID,
				"amount":         amount,
			},
		},
		PaymentID:     paymentID,
		OrderID:       orderID,
		TransactionID: transactionID,
		Amount:        amount,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID     int64   `json:"payment_id"`
	OrderID       int64   `json:"order_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	ErrorMessage  string  `json:"error_message"`
}

func NewPaymentFailedEvent(paymentID, orderID int64, transactionID string, amount float64, errorMessage string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"order_id":       orderID,
				"transaction_id": transactionID,
				"amount":         amount,
				"error_message":  errorMessage,
			},
		},
		PaymentID:     paymentID,
		OrderID:       orderID,
		TransactionID: transactionID,
		Amount:        amount,
		ErrorMessage:  errorMessage,
	}
}

type PaymentRefundedEvent struct {
	BaseEvent
	PaymentID    int64   `json:"payment_id"`
	OrderID      int64   `json:"order_id"`
	RefundAmount float64 `json:"refund_amount"`
	RefundReason string  `json:"refund_reason"`
}

func NewPaymentRefundedEvent(paymentID, orderID int64, refundAmount float64, refundReason string) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRefunded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":    paymentID,
				"order_id":      orderID,
				"refund_amount": refundAmount,
				"refund_reason": refundReason,
			},
		},
		PaymentID:    paymentID,
		OrderID:      orderID,
		RefundAmount: refundAmount,
		RefundReason: refundReason,
	}
}
