package order

import (
	"errors"
	"log/slog"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	orderDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/order"
	"github.com/cigarcraft/cigar-commerce/internal/pricing"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	Create(o *orderDatamodel.Order) error
	GetByID(id int64) (*orderDatamodel.Order, error)
	UpdateStatus(id int64, status string) error
}

// PricingAPI quotes a selection; the order service stores the quote for
// display, checkout recomputes it independently.
type PricingAPI interface {
	Quote(selection pricing.Selection) (*pricing.Breakdown, error)
}

type Service struct {
	repo    RepositoryAPI
	pricing PricingAPI
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, pricingEngine PricingAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		pricing: pricingEngine,
		logger:  logger,
	}
}

// CreateOrder validates and prices the selection, then persists the order.
// Pricing up front rejects orders referencing unknown components before they
// ever reach checkout.
func (s *Service) CreateOrder(dto CreateOrderDTO) (*orderDatamodel.Order, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("order validation failed", "error", err)
		return nil, err
	}

	breakdown, err := s.pricing.Quote(dto.ToSelection())
	if err != nil {
		s.logger.Error("failed to price order selection", "error", err)
		return nil, err
	}

	o := &orderDatamodel.Order{
		CustomerName:  dto.CustomerName,
		CustomerEmail: dto.CustomerEmail,
		SizeID:        dto.SizeID,
		BinderID:      dto.BinderID,
		FlavorID:      dto.FlavorID,
		BandStyleID:   dto.BandStyleID,
		BoxTypeID:     dto.BoxTypeID,
		Quantity:      breakdown.Quantity,
		Status:        orderDatamodel.StatusCreated,
		QuotedTotal:   &breakdown.Total,
	}

	if err := s.repo.Create(o); err != nil {
		s.logger.Error("failed to create order", "error", err)
		return nil, apperrors.NewInternalError("failed to create order", err)
	}

	s.logger.Info("order created",
		"order_id", o.ID,
		"quantity", o.Quantity,
		"quoted_total", breakdown.Total)

	return o, nil
}

func (s *Service) GetOrder(id int64) (*orderDatamodel.Order, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		s.logger.Error("failed to get order", "error", err, "order_id", id)
		return nil, apperrors.NewInternalError("failed to get order", err)
	}
	return o, nil
}

// MarkAwaitingPayment records that a checkout session exists for the order.
func (s *Service) MarkAwaitingPayment(id int64) error {
	return s.updateStatus(id, orderDatamodel.StatusAwaitingPayment)
}

// MarkPaid is driven by the payment.completed event.
func (s *Service) MarkPaid(id int64) error {
	return s.updateStatus(id, orderDatamodel.StatusPaid)
}

// MarkPaymentFailed is driven by the payment.failed event.
func (s *Service) MarkPaymentFailed(id int64) error {
	return s.updateStatus(id, orderDatamodel.StatusPaymentFailed)
}

func (s *Service) updateStatus(id int64, status string) error {
	if err := s.repo.UpdateStatus(id, status); err != nil {
		s.logger.Error("failed to update order status", "error", err, "order_id", id, "status", status)
		return apperrors.NewInternalError("failed to update order status", err)
	}
	s.logger.Info("order status updated", "order_id", id, "status", status)
	return nil
}
