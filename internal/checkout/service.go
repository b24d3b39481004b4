package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	orderDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/order"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	gatewaytypes "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/paymentgateway"
	"github.com/cigarcraft/cigar-commerce/internal/pricing"
)

type OrderAPI interface {
	GetOrder(id int64) (*orderDatamodel.Order, error)
	MarkAwaitingPayment(id int64) error
}

type PricingAPI interface {
	Quote(selection pricing.Selection) (*pricing.Breakdown, error)
}

type GatewayAPI interface {
	CreateHostedSession(ctx context.Context, req *gatewaytypes.TransactionRequest) (*gatewaytypes.TransactionResponse, error)
}

type PaymentAPI interface {
	Create(p *paymentDatamodel.Payment) (*paymentDatamodel.Payment, error)
}

// Config carries the hosted payment page the session token is redeemed
// against and the redirect URLs templated into every transaction request.
type Config struct {
	HostedPageURL string
	ReturnURL     string
	CancelURL     string
}

// Service orchestrates checkout: it turns a persisted order into a hosted
// gateway session and a pending payment record. The charge amount is always
// recomputed from the order's stored selection; nothing the client sends can
// influence it.
type Service struct {
	orders   OrderAPI
	pricing  PricingAPI
	gateway  GatewayAPI
	payments PaymentAPI
	config   Config
	logger   *slog.Logger
}

func NewService(orders OrderAPI, pricingEngine PricingAPI, gateway GatewayAPI, payments PaymentAPI, config Config, logger *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		pricing:  pricingEngine,
		gateway:  gateway,
		payments: payments,
		config:   config,
		logger:   logger,
	}
}

// CreateSession requests a one-time hosted-checkout token for the order. A
// pending payment record keyed by the session token is created only after the
// gateway accepts the request; a rejected or timed out session leaves no
// record behind.
func (s *Service) CreateSession(ctx context.Context, orderID int64) (*Session, error) {
	o, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.pricing.Quote(pricing.SelectionFromOrder(o))
	if err != nil {
		s.logger.Error("failed to price order for checkout", "error", err, "order_id", o.ID)
		return nil, err
	}

	req := &gatewaytypes.TransactionRequest{
		Amount:      breakdown.Total,
		Invoice:     fmt.Sprintf("order-%d", o.ID),
		Description: fmt.Sprintf("Custom cigar order #%d (%d pcs)", o.ID, breakdown.Quantity),
		ReturnURL:   s.config.ReturnURL,
		CancelURL:   s.config.CancelURL,
	}

	resp, err := s.gateway.CreateHostedSession(ctx, req)
	if err != nil {
		s.logger.Error("gateway session request failed", "error", err, "order_id", o.ID)
		return nil, err
	}

	if !resp.OK() {
		s.logger.Warn("gateway rejected checkout session",
			"order_id", o.ID,
			"message", resp.FirstError())
		return nil, apperrors.NewGatewayError(resp.FirstError())
	}

	record, err := s.payments.Create(&paymentDatamodel.Payment{
		OrderID:       o.ID,
		TransactionID: resp.Token,
		Amount:        breakdown.Total,
		Currency:      "USD",
		Status:        paymentDatamodel.StatusPending,
	})
	if err != nil {
		s.logger.Error("failed to create pending payment record", "error", err, "order_id", o.ID)
		return nil, err
	}

	if err := s.orders.MarkAwaitingPayment(o.ID); err != nil {
		s.logger.Error("failed to mark order awaiting payment", "error", err, "order_id", o.ID)
		return nil, err
	}

	session := &Session{
		OrderID:     o.ID,
		PaymentID:   record.ID,
		Token:       resp.Token,
		Amount:      breakdown.Total,
		CheckoutURL: s.checkoutURL(resp.Token),
	}

	s.logger.Info("checkout session created",
		"order_id", o.ID,
		"payment_id", record.ID,
		"amount", breakdown.Total)

	return session, nil
}

// checkoutURL builds the buyer-facing redirect. The token is the only query
// parameter; it is URL-escaped because gateways are free to put reserved
// characters in it.
func (s *Service) checkoutURL(token string) string {
	return s.config.HostedPageURL + "?token=" + url.QueryEscape(token)
}
