package payment

import (
	"strings"
	"time"

	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
)

// RepositoryAPI is the persistence contract for payment records.
type RepositoryAPI interface {
	Create(p *paymentDatamodel.Payment) error
	GetByID(id int64) (*paymentDatamodel.Payment, error)
	GetByTransactionID(transactionID string) (*paymentDatamodel.Payment, error)
	GetByOrderID(orderID int64) ([]*paymentDatamodel.Payment, error)
	ExistsByTransactionID(transactionID string) (bool, error)
	Update(p *paymentDatamodel.Payment) error
	GetByCreatedAtRange(from, to time.Time) ([]*paymentDatamodel.Payment, error)
}

// ServiceAPI is what handlers and the checkout orchestrator see of the
// lifecycle manager. The manager is the sole writer of payment status;
// everything else reads.
type ServiceAPI interface {
	Create(p *paymentDatamodel.Payment) (*paymentDatamodel.Payment, error)
	UpdateStatus(id int64, status string, errorMessage *string) (*paymentDatamodel.Payment, error)
	Refund(id int64, amount float64, reason string) (*paymentDatamodel.Payment, error)
	GetByTransactionID(transactionID string) (*paymentDatamodel.Payment, error)
	GetByOrderID(orderID int64) ([]*paymentDatamodel.Payment, error)
	Aggregate(from, to time.Time) (*Stats, error)
}

// MapGatewayStatus maps the status strings gateways report in callbacks to
// the internal lifecycle statuses. Anything unrecognized stays pending so a
// later, clearer callback can settle it.
func MapGatewayStatus(gatewayStatus string) string {
	switch strings.ToLower(gatewayStatus) {
	case "approved", "settled", "captured", "completed", "success":
		return paymentDatamodel.StatusCompleted
	case "declined", "failed", "error", "voided":
		return paymentDatamodel.StatusFailed
	default:
		return paymentDatamodel.StatusPending
	}
}
