package payment

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	"gorm.io/gorm"
)

// Service is the payment lifecycle manager. Transitions for one payment id
// are serialized through a per-id lock so a completed callback racing a
// failed write cannot interleave; different ids run fully in parallel.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	locks  sync.Map // payment id -> *sync.Mutex
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) lockFor(id int64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create persists a new payment record. The transaction id comes from the
// gateway, so a collision means the same gateway event was fed in twice.
// Status defaults to pending; reconciliation feeds may supply another
// initial status explicitly.
func (s *Service) Create(p *paymentDatamodel.Payment) (*paymentDatamodel.Payment, error) {
	if p.TransactionID == "" {
		return nil, apperrors.NewValidationError("transaction id is required", apperrors.ErrCodeValidationFailed)
	}
	if p.OrderID == 0 {
		return nil, apperrors.NewValidationError("order id is required", apperrors.ErrCodeValidationFailed)
	}
	if p.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be greater than zero", apperrors.ErrCodeInvalidAmount)
	}

	if p.Status == "" {
		p.Status = paymentDatamodel.StatusPending
	}
	if !paymentDatamodel.ValidStatus(p.Status) {
		return nil, apperrors.NewValidationError("unknown payment status", apperrors.ErrCodeValidationFailed)
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Status == paymentDatamodel.StatusCompleted && p.ProcessedAt == nil {
		now := time.Now()
		p.ProcessedAt = &now
	}

	exists, err := s.repo.ExistsByTransactionID(p.TransactionID)
	if err != nil {
		s.logger.Error("failed to check transaction id", "error", err, "transaction_id", p.TransactionID)
		return nil, apperrors.NewInternalError("failed to create payment record", err)
	}
	if exists {
		s.logger.Warn("duplicate transaction id rejected", "transaction_id", p.TransactionID, "order_id", p.OrderID)
		return nil, apperrors.ErrDuplicateTransaction
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create payment record", "error", err, "order_id", p.OrderID)
		return nil, apperrors.NewInternalError("failed to create payment record", err)
	}

	s.logger.Info("payment record created",
		"payment_id", p.ID,
		"order_id", p.OrderID,
		"transaction_id", p.TransactionID,
		"status", p.Status)

	return p, nil
}

// UpdateStatus applies a generic lifecycle transition. Updates are
// last-write-wins because reconciliation feeds replay stale events, with two
// carve-outs: refunded is terminal, and refunds never travel through here.
// processedAt is stamped on the first completed transition and never again.
func (s *Service) UpdateStatus(id int64, status string, errorMessage *string) (*paymentDatamodel.Payment, error) {
	if !paymentDatamodel.ValidStatus(status) {
		return nil, apperrors.NewValidationError("unknown payment status", apperrors.ErrCodeValidationFailed)
	}
	if status == paymentDatamodel.StatusRefunded {
		return nil, apperrors.NewInvalidRefundError("refunds must be applied through the refund operation")
	}

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	if p.Status == paymentDatamodel.StatusRefunded {
		s.logger.Warn("status update on refunded payment rejected", "payment_id", id, "requested_status", status)
		return nil, apperrors.NewInvalidRefundError("refunded payments cannot change status")
	}

	previousStatus := p.Status
	p.Status = status
	if errorMessage != nil {
		p.ErrorMessage = errorMessage
	}
	if status == paymentDatamodel.StatusCompleted && p.ProcessedAt == nil {
		now := time.Now()
		p.ProcessedAt = &now
	}

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update payment status", "error", err, "payment_id", id)
		return nil, apperrors.NewInternalError("failed to update payment status", err)
	}

	s.logger.Info("payment status updated",
		"payment_id", id,
		"old_status", previousStatus,
		"new_status", status)

	return p, nil
}

// Refund transitions a completed payment to refunded. The amount must be
// positive and must not exceed the originally captured amount; the original
// amount itself is left untouched.
func (s *Service) Refund(id int64, amount float64, reason string) (*paymentDatamodel.Payment, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	if !p.CanRefund() {
		s.logger.Warn("refund rejected: wrong status", "payment_id", id, "status", p.Status)
		return nil, apperrors.NewInvalidRefundError("only completed payments can be refunded")
	}
	if amount <= 0 {
		return nil, apperrors.NewInvalidRefundError("refund amount must be greater than zero")
	}
	if amount > p.Amount {
		s.logger.Warn("refund rejected: amount exceeds original",
			"payment_id", id,
			"refund_amount", amount,
			"original_amount", p.Amount)
		return nil, apperrors.NewInvalidRefundError("refund amount exceeds the original payment amount")
	}

	now := time.Now()
	p.Status = paymentDatamodel.StatusRefunded
	p.RefundAmount = &amount
	p.RefundReason = &reason
	p.RefundedAt = &now

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to apply refund", "error", err, "payment_id", id)
		return nil, apperrors.NewInternalError("failed to apply refund", err)
	}

	s.logger.Info("payment refunded",
		"payment_id", id,
		"order_id", p.OrderID,
		"refund_amount", amount,
		"reason", reason)

	return p, nil
}

func (s *Service) GetByTransactionID(transactionID string) (*paymentDatamodel.Payment, error) {
	p, err := s.repo.GetByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		s.logger.Error("failed to get payment by transaction id", "error", err, "transaction_id", transactionID)
		return nil, apperrors.NewInternalError("failed to get payment", err)
	}
	return p, nil
}

// GetByOrderID returns every payment attempt for an order, most recent first.
func (s *Service) GetByOrderID(orderID int64) ([]*paymentDatamodel.Payment, error) {
	payments, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		s.logger.Error("failed to get payments for order", "error", err, "order_id", orderID)
		return nil, apperrors.NewInternalError("failed to get payments", err)
	}
	return payments, nil
}

func (s *Service) getByID(id int64) (*paymentDatamodel.Payment, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		s.logger.Error("failed to get payment", "error", err, "payment_id", id)
		return nil, apperrors.NewInternalError("failed to get payment", err)
	}
	return p, nil
}
