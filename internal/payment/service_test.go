package payment_test

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	paymentPkg "github.com/cigarcraft/cigar-commerce/internal/payment"
)

func TestPaymentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Service Suite")
}

type mockPaymentRepository struct {
	mu     sync.Mutex
	byID   map[int64]*paymentDatamodel.Payment
	nextID int64

	createError error
	getError    error
	updateError error
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{
		byID:   make(map[int64]*paymentDatamodel.Payment),
		nextID: 1,
	}
}

func (m *mockPaymentRepository) Create(p *paymentDatamodel.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	p.ID = m.nextID
	m.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	copied := *p
	m.byID[p.ID] = &copied
	return nil
}

func (m *mockPaymentRepository) GetByID(id int64) (*paymentDatamodel.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPaymentRepository) GetByTransactionID(transactionID string) (*paymentDatamodel.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	for _, p := range m.byID {
		if p.TransactionID == transactionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepository) GetByOrderID(orderID int64) ([]*paymentDatamodel.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*paymentDatamodel.Payment
	for _, p := range m.byID {
		if p.OrderID == orderID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockPaymentRepository) ExistsByTransactionID(transactionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPaymentRepository) Update(p *paymentDatamodel.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	copied := *p
	m.byID[p.ID] = &copied
	return nil
}

func (m *mockPaymentRepository) GetByCreatedAtRange(from, to time.Time) ([]*paymentDatamodel.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*paymentDatamodel.Payment
	for _, p := range m.byID {
		if !p.CreatedAt.Before(from) && !p.CreatedAt.After(to) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

var _ = Describe("Payment Lifecycle", func() {
	var (
		repo    *mockPaymentRepository
		service *paymentPkg.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockPaymentRepository()
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = paymentPkg.NewService(repo, logger)
	})

	newPending := func(orderID int64, txnID string, amount float64) *paymentDatamodel.Payment {
		return &paymentDatamodel.Payment{
			OrderID:       orderID,
			TransactionID: txnID,
			Amount:        amount,
		}
	}

	Describe("Create", func() {
		It("persists a pending record with defaulted currency", func() {
			created, err := service.Create(newPending(1, "txn-001", 106.11))
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.Status).To(Equal(paymentDatamodel.StatusPending))
			Expect(created.Currency).To(Equal("USD"))
			Expect(created.ProcessedAt).To(BeNil())
		})

		It("rejects a missing transaction id", func() {
			_, err := service.Create(newPending(1, "", 50.00))
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Create(newPending(1, "txn-002", 0))
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidAmount))
		})

		It("rejects a duplicate transaction id with a conflict", func() {
			_, err := service.Create(newPending(1, "txn-dup", 25.00))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(newPending(2, "txn-dup", 30.00))
			Expect(err).To(Equal(apperrors.ErrDuplicateTransaction))
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("stamps processedAt when created directly as completed", func() {
			p := newPending(1, "txn-003", 44.50)
			p.Status = paymentDatamodel.StatusCompleted

			created, err := service.Create(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ProcessedAt).NotTo(BeNil())
		})
	})

	Describe("UpdateStatus", func() {
		var created *paymentDatamodel.Payment

		BeforeEach(func() {
			var err error
			created, err = service.Create(newPending(7, "txn-100", 89.00))
			Expect(err).NotTo(HaveOccurred())
		})

		It("transitions pending to completed and stamps processedAt", func() {
			updated, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(paymentDatamodel.StatusCompleted))
			Expect(updated.ProcessedAt).NotTo(BeNil())
		})

		It("is idempotent for repeated completed callbacks and keeps the first processedAt", func() {
			first, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
			firstProcessed := *first.ProcessedAt

			second, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Status).To(Equal(paymentDatamodel.StatusCompleted))
			Expect(*second.ProcessedAt).To(Equal(firstProcessed))
		})

		It("keeps processedAt when a stale failed event lands after completion", func() {
			first, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
			firstProcessed := *first.ProcessedAt

			msg := "declined by issuer"
			stale, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusFailed, &msg)
			Expect(err).NotTo(HaveOccurred())
			Expect(stale.Status).To(Equal(paymentDatamodel.StatusFailed))
			Expect(*stale.ProcessedAt).To(Equal(firstProcessed))
			Expect(*stale.ErrorMessage).To(Equal(msg))
		})

		It("rejects refunded as a target status", func() {
			_, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusRefunded, nil)
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRefund))
		})

		It("rejects updates on a refunded record", func() {
			_, err := service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Refund(created.ID, 89.00, "customer request")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRefund))
		})

		It("rejects an unknown status string", func() {
			_, err := service.UpdateStatus(created.ID, "charged_back", nil)
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("returns not found for an unknown payment id", func() {
			_, err := service.UpdateStatus(9999, paymentDatamodel.StatusCompleted, nil)
			Expect(err).To(Equal(apperrors.ErrPaymentNotFound))
		})
	})

	Describe("Refund", func() {
		var created *paymentDatamodel.Payment

		BeforeEach(func() {
			var err error
			created, err = service.Create(newPending(8, "txn-200", 106.11))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UpdateStatus(created.ID, paymentDatamodel.StatusCompleted, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("refunds the full amount and leaves the original amount untouched", func() {
			refunded, err := service.Refund(created.ID, 106.11, "order cancelled")
			Expect(err).NotTo(HaveOccurred())
			Expect(refunded.Status).To(Equal(paymentDatamodel.StatusRefunded))
			Expect(refunded.Amount).To(Equal(106.11))
			Expect(*refunded.RefundAmount).To(Equal(106.11))
			Expect(*refunded.RefundReason).To(Equal("order cancelled"))
			Expect(refunded.RefundedAt).NotTo(BeNil())
		})

		It("accepts a partial refund", func() {
			refunded, err := service.Refund(created.ID, 50.00, "damaged box")
			Expect(err).NotTo(HaveOccurred())
			Expect(refunded.Status).To(Equal(paymentDatamodel.StatusRefunded))
			Expect(*refunded.RefundAmount).To(Equal(50.00))
			Expect(refunded.Amount).To(Equal(106.11))
		})

		It("rejects a refund exceeding the original amount", func() {
			_, err := service.Refund(created.ID, 106.12, "too much")
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRefund))
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("rejects a zero or negative refund amount", func() {
			_, err := service.Refund(created.ID, 0, "nothing")
			Expect(err).To(HaveOccurred())

			_, err = service.Refund(created.ID, -5, "negative")
			Expect(err).To(HaveOccurred())
		})

		It("rejects refunds on payments that never completed", func() {
			pending, err := service.Create(newPending(9, "txn-201", 30.00))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Refund(pending.ID, 30.00, "not settled yet")
			Expect(err).To(HaveOccurred())
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidRefund))
		})

		It("treats refunded as terminal: a second refund fails", func() {
			_, err := service.Refund(created.ID, 20.00, "first")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Refund(created.ID, 10.00, "second")
			Expect(err).To(HaveOccurred())
		})

		It("lets exactly one of two concurrent refunds win", func() {
			var wg sync.WaitGroup
			results := make([]error, 2)

			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					_, results[idx] = service.Refund(created.ID, 10.00, "race")
				}(i)
			}
			wg.Wait()

			var failures int
			for _, err := range results {
				if err != nil {
					failures++
				}
			}
			Expect(failures).To(Equal(1))
		})
	})

	Describe("Lookups", func() {
		It("finds a payment by its transaction id", func() {
			created, err := service.Create(newPending(3, "txn-lookup", 12.34))
			Expect(err).NotTo(HaveOccurred())

			found, err := service.GetByTransactionID("txn-lookup")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(created.ID))
		})

		It("returns not found for an unknown transaction id", func() {
			_, err := service.GetByTransactionID("txn-missing")
			Expect(err).To(Equal(apperrors.ErrPaymentNotFound))
		})

		It("lists all attempts for an order", func() {
			_, err := service.Create(newPending(5, "txn-a", 10.00))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(newPending(5, "txn-b", 10.00))
			Expect(err).NotTo(HaveOccurred())

			payments, err := service.GetByOrderID(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(2))
		})
	})
})

var _ = Describe("MapGatewayStatus", func() {
	It("maps settlement vocabulary to completed", func() {
		for _, s := range []string{"approved", "Settled", "CAPTURED", "completed", "success"} {
			Expect(paymentPkg.MapGatewayStatus(s)).To(Equal(paymentDatamodel.StatusCompleted))
		}
	})

	It("maps rejection vocabulary to failed", func() {
		for _, s := range []string{"declined", "failed", "ERROR", "voided"} {
			Expect(paymentPkg.MapGatewayStatus(s)).To(Equal(paymentDatamodel.StatusFailed))
		}
	})

	It("leaves anything unrecognized pending, never refunded", func() {
		Expect(paymentPkg.MapGatewayStatus("held_for_review")).To(Equal(paymentDatamodel.StatusPending))
		Expect(paymentPkg.MapGatewayStatus("refunded")).To(Equal(paymentDatamodel.StatusPending))
	})
})
