package payment

import (
	"math"
	"time"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	paymentDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/payment"
)

// Stats is a read-only rollup over payment records created in a date range.
// AverageTransaction is nil, not zero, when the range holds no completed
// payments.
type Stats struct {
	TotalPayments      int      `json:"total_payments"`
	SuccessfulPayments int      `json:"successful_payments"`
	FailedPayments     int      `json:"failed_payments"`
	RefundedPayments   int      `json:"refunded_payments"`
	TotalAmount        float64  `json:"total_amount"`
	TotalRefunded      float64  `json:"total_refunded"`
	AverageTransaction *float64 `json:"average_transaction"`
}

// Aggregate partitions all records with createdAt in [from, to] by status.
// TotalAmount sums only completed payments, TotalRefunded sums only refund
// amounts of refunded payments.
func (s *Service) Aggregate(from, to time.Time) (*Stats, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("date range end precedes start", apperrors.ErrCodeInvalidDateRange)
	}

	records, err := s.repo.GetByCreatedAtRange(from, to)
	if err != nil {
		s.logger.Error("failed to load payments for aggregation", "error", err)
		return nil, apperrors.NewInternalError("failed to aggregate payments", err)
	}

	stats := &Stats{TotalPayments: len(records)}
	var completedTotal float64
	var refundedTotal float64
	var completedCount int

	for _, p := range records {
		switch p.Status {
		case paymentDatamodel.StatusCompleted:
			stats.SuccessfulPayments++
			completedCount++
			completedTotal += p.Amount
		case paymentDatamodel.StatusFailed:
			stats.FailedPayments++
		case paymentDatamodel.StatusRefunded:
			stats.RefundedPayments++
			if p.RefundAmount != nil {
				refundedTotal += *p.RefundAmount
			}
		}
	}

	stats.TotalAmount = round2(completedTotal)
	stats.TotalRefunded = round2(refundedTotal)
	if completedCount > 0 {
		avg := round2(completedTotal / float64(completedCount))
		stats.AverageTransaction = &avg
	}

	s.logger.Debug("payments aggregated",
		"from", from,
		"to", to,
		"total", stats.TotalPayments,
		"successful", stats.SuccessfulPayments)

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
