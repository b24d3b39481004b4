package order

import (
	"time"
)

const (
	StatusCreated         = "created"
	StatusAwaitingPayment = "awaiting_payment"
	StatusPaid            = "paid"
	StatusPaymentFailed   = "payment_failed"
)

// Order holds one buyer's component selection. The component references are
// the source of truth for pricing: checkout recomputes the amount from these
// columns, never from anything echoed by the client.
type Order struct {
	ID            int64     `gorm:"primaryKey"`
	CustomerName  string    `gorm:"column:customer_name"`
	CustomerEmail string    `gorm:"column:customer_email"`
	SizeID        *int64    `gorm:"column:size_id"`
	BinderID      *int64    `gorm:"column:binder_id"`
	FlavorID      *int64    `gorm:"column:flavor_id"`
	BandStyleID   *int64    `gorm:"column:band_style_id"`
	BoxTypeID     *int64    `gorm:"column:box_type_id"`
	Quantity      int       `gorm:"column:quantity;default:1"`
	Status        string    `gorm:"column:status;default:created"`
	QuotedTotal   *float64  `gorm:"column:quoted_total"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Order) TableName() string {
	return "orders"
}
