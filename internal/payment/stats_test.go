package payment_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
	paymentPkg "github.com/cigarcraft/cigar-commerce/internal/payment"
)

var _ = Describe("Payment Stats", func() {
	var (
		repo    *mockPaymentRepository
		service *paymentPkg.Service
		now     time.Time
	)

	seed := func(status string, amount float64, refund *float64, createdAt time.Time) {
		p := &paymentDatamodel.Payment{
			OrderID:       1,
			TransactionID: "txn-" + createdAt.Format("150405.000000000") + status,
			Amount:        amount,
			Status:        status,
			RefundAmount:  refund,
			CreatedAt:     createdAt,
		}
		Expect(repo.Create(p)).To(Succeed())
	}

	BeforeEach(func() {
		repo = newMockPaymentRepository()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = paymentPkg.NewService(repo, logger)
		now = time.Now()
	})

	It("partitions records by status over the range", func() {
		seed(paymentDatamodel.StatusCompleted, 100.00, nil, now.Add(-2*time.Hour))
		seed(paymentDatamodel.StatusCompleted, 50.50, nil, now.Add(-1*time.Hour))
		seed(paymentDatamodel.StatusFailed, 75.00, nil, now.Add(-1*time.Hour))
		seed(paymentDatamodel.StatusPending, 20.00, nil, now.Add(-30*time.Minute))
		refund := 40.00
		seed(paymentDatamodel.StatusRefunded, 60.00, &refund, now.Add(-15*time.Minute))

		stats, err := service.Aggregate(now.Add(-24*time.Hour), now)
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.TotalPayments).To(Equal(5))
		Expect(stats.SuccessfulPayments).To(Equal(2))
		Expect(stats.FailedPayments).To(Equal(1))
		Expect(stats.RefundedPayments).To(Equal(1))
		Expect(stats.TotalAmount).To(Equal(150.50))
		Expect(stats.TotalRefunded).To(Equal(40.00))
		Expect(stats.AverageTransaction).NotTo(BeNil())
		Expect(*stats.AverageTransaction).To(Equal(75.25))
	})

	It("excludes records created outside the range", func() {
		seed(paymentDatamodel.StatusCompleted, 100.00, nil, now.Add(-48*time.Hour))
		seed(paymentDatamodel.StatusCompleted, 30.00, nil, now.Add(-1*time.Hour))

		stats, err := service.Aggregate(now.Add(-24*time.Hour), now)
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.TotalPayments).To(Equal(1))
		Expect(stats.TotalAmount).To(Equal(30.00))
	})

	It("reports a nil average when no payment in the range completed", func() {
		seed(paymentDatamodel.StatusFailed, 75.00, nil, now.Add(-1*time.Hour))
		seed(paymentDatamodel.StatusPending, 20.00, nil, now.Add(-1*time.Hour))

		stats, err := service.Aggregate(now.Add(-24*time.Hour), now)
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.AverageTransaction).To(BeNil())
		Expect(stats.TotalAmount).To(Equal(0.00))
	})

	It("counts refunded payments outside TotalAmount", func() {
		refund := 25.00
		seed(paymentDatamodel.StatusRefunded, 100.00, &refund, now.Add(-1*time.Hour))

		stats, err := service.Aggregate(now.Add(-24*time.Hour), now)
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.TotalAmount).To(Equal(0.00))
		Expect(stats.TotalRefunded).To(Equal(25.00))
		Expect(stats.AverageTransaction).To(BeNil())
	})

	It("rejects a range whose end precedes its start", func() {
		_, err := service.Aggregate(now, now.Add(-time.Hour))
		Expect(err).To(HaveOccurred())
		appErr, _ := apperrors.IsAppError(err)
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidDateRange))
	})
})
