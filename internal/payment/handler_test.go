package payment_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	"github.com/cigarcraft/cigar-commerce/internal/core/events"
	paymentPkg "github.com/cigarcraft/cigar-commerce/internal/payment"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
)

type mockPaymentService struct {
	refundResult  *paymentDatamodel.Payment
	refundErr     error
	byTransaction map[string]*paymentDatamodel.Payment
	updated       []*paymentDatamodel.Payment
	updateErr     error
	orderPayments []*paymentDatamodel.Payment
	stats         *paymentPkg.Stats
	statsErr      error
}

func (m *mockPaymentService) Create(p *paymentDatamodel.Payment) (*paymentDatamodel.Payment, error) {
	return p, nil
}

func (m *mockPaymentService) UpdateStatus(id int64, status string, errorMessage *string) (*paymentDatamodel.Payment, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for _, p := range m.byTransaction {
		if p.ID == id {
			p.Status = status
			p.ErrorMessage = errorMessage
			m.updated = append(m.updated, p)
			return p, nil
		}
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (m *mockPaymentService) Refund(id int64, amount float64, reason string) (*paymentDatamodel.Payment, error) {
	if m.refundErr != nil {
		return nil, m.refundErr
	}
	return m.refundResult, nil
}

func (m *mockPaymentService) GetByTransactionID(transactionID string) (*paymentDatamodel.Payment, error) {
	if p, ok := m.byTransaction[transactionID]; ok {
		return p, nil
	}
	return nil, apperrors.ErrPaymentNotFound
}

func (m *mockPaymentService) GetByOrderID(orderID int64) ([]*paymentDatamodel.Payment, error) {
	return m.orderPayments, nil
}

func (m *mockPaymentService) Aggregate(from, to time.Time) (*paymentPkg.Stats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

var _ = Describe("Payment Handler", func() {
	var (
		service *mockPaymentService
		handler *paymentPkg.Handler
		router  *chi.Mux
		logger  *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = &mockPaymentService{byTransaction: make(map[string]*paymentDatamodel.Payment)}
		handler = paymentPkg.NewHandler(service, events.NewEventBus(logger), logger)

		router = chi.NewRouter()
		router.Post("/payments/{id}/refund", handler.RefundPayment)
		router.Get("/payments/order/{orderId}", handler.GetOrderPayments)
		router.Get("/payments/stats", handler.GetStats)
	})

	Describe("RefundPayment", func() {
		It("returns the refunded record", func() {
			refund := 25.00
			reason := "damaged in transit"
			now := time.Now()
			service.refundResult = &paymentDatamodel.Payment{
				ID:            5,
				OrderID:       2,
				TransactionID: "txn-5",
				Amount:        100.00,
				Currency:      "USD",
				Status:        paymentDatamodel.StatusRefunded,
				RefundAmount:  &refund,
				RefundReason:  &reason,
				RefundedAt:    &now,
			}

			body, _ := json.Marshal(paymentPkg.RefundRequest{Amount: 25.00, Reason: "damaged in transit"})
			req := httptest.NewRequest(http.MethodPost, "/payments/5/refund", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var view paymentPkg.PaymentView
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Status).To(Equal(paymentDatamodel.StatusRefunded))
			Expect(*view.RefundAmount).To(Equal(25.00))
		})

		It("maps invalid refund errors to 422", func() {
			service.refundErr = apperrors.NewInvalidRefundError("only completed payments can be refunded")

			body, _ := json.Marshal(paymentPkg.RefundRequest{Amount: 25.00, Reason: "too early"})
			req := httptest.NewRequest(http.MethodPost, "/payments/5/refund", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("rejects a malformed payment id", func() {
			body, _ := json.Marshal(paymentPkg.RefundRequest{Amount: 25.00, Reason: "x"})
			req := httptest.NewRequest(http.MethodPost, "/payments/abc/refund", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a refund without a reason", func() {
			body, _ := json.Marshal(paymentPkg.RefundRequest{Amount: 25.00})
			req := httptest.NewRequest(http.MethodPost, "/payments/5/refund", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetOrderPayments", func() {
		It("lists payments for the order", func() {
			service.orderPayments = []*paymentDatamodel.Payment{
				{ID: 1, OrderID: 3, TransactionID: "txn-1", Amount: 10, Status: paymentDatamodel.StatusFailed},
				{ID: 2, OrderID: 3, TransactionID: "txn-2", Amount: 10, Status: paymentDatamodel.StatusCompleted},
			}

			req := httptest.NewRequest(http.MethodGet, "/payments/order/3", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var views []paymentPkg.PaymentView
			Expect(json.Unmarshal(rec.Body.Bytes(), &views)).To(Succeed())
			Expect(views).To(HaveLen(2))
		})
	})

	Describe("GetStats", func() {
		It("returns the aggregate for the range", func() {
			avg := 75.25
			service.stats = &paymentPkg.Stats{
				TotalPayments:      4,
				SuccessfulPayments: 2,
				TotalAmount:        150.50,
				AverageTransaction: &avg,
			}

			req := httptest.NewRequest(http.MethodGet, "/payments/stats?from=2026-01-01&to=2026-02-01", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats paymentPkg.Stats
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.TotalPayments).To(Equal(4))
			Expect(*stats.AverageTransaction).To(Equal(75.25))
		})

		It("serializes a nil average as JSON null", func() {
			service.stats = &paymentPkg.Stats{TotalPayments: 1, FailedPayments: 1}

			req := httptest.NewRequest(http.MethodGet, "/payments/stats", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"average_transaction":null`))
		})

		It("rejects an unparseable date", func() {
			req := httptest.NewRequest(http.MethodGet, "/payments/stats?from=yesterday", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

var _ = Describe("Gateway Webhook Handler", func() {
	var (
		service *mockPaymentService
		handler *paymentPkg.WebhookHandler
		logger  *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = &mockPaymentService{byTransaction: make(map[string]*paymentDatamodel.Payment)}
		eventBus := events.NewEventBus(logger)
		handler = paymentPkg.NewWebhookHandler(transport.NewBaseHandler(logger), service, eventBus, logger)
	})

	postCallback := func(payload paymentPkg.GatewayCallbackRequest) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.HandleGatewayCallback(rec, req)
		return rec
	}

	It("settles a pending payment on an approved callback", func() {
		service.byTransaction["txn-hosted-1"] = &paymentDatamodel.Payment{
			ID: 1, OrderID: 4, TransactionID: "txn-hosted-1", Amount: 106.11,
			Status: paymentDatamodel.StatusPending,
		}

		rec := postCallback(paymentPkg.GatewayCallbackRequest{
			TransactionID: "txn-hosted-1",
			Status:        "approved",
			Amount:        106.11,
		})

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(service.updated).To(HaveLen(1))
		Expect(service.updated[0].Status).To(Equal(paymentDatamodel.StatusCompleted))
	})

	It("records the failure message on a declined callback", func() {
		service.byTransaction["txn-hosted-2"] = &paymentDatamodel.Payment{
			ID: 2, OrderID: 4, TransactionID: "txn-hosted-2", Amount: 50.00,
			Status: paymentDatamodel.StatusPending,
		}

		rec := postCallback(paymentPkg.GatewayCallbackRequest{
			TransactionID: "txn-hosted-2",
			Status:        "declined",
			ErrorMessage:  "insufficient funds",
		})

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(service.updated).To(HaveLen(1))
		Expect(service.updated[0].Status).To(Equal(paymentDatamodel.StatusFailed))
		Expect(*service.updated[0].ErrorMessage).To(Equal("insufficient funds"))
	})

	It("rejects a callback without a transaction id", func() {
		rec := postCallback(paymentPkg.GatewayCallbackRequest{Status: "approved"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects a callback without a status", func() {
		rec := postCallback(paymentPkg.GatewayCallbackRequest{TransactionID: "txn-x"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("fails when the transaction id is unknown", func() {
		rec := postCallback(paymentPkg.GatewayCallbackRequest{
			TransactionID: "txn-missing",
			Status:        "approved",
		})
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})
})
