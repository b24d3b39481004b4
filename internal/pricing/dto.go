package pricing

import (
	errors "github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/core/common/validation"
)

// QuoteRequest is the inbound pricing request. Every component reference is
// optional; quantity defaults to 1.
type QuoteRequest struct {
	SizeID      *int64 `json:"size_id,omitempty"`
	BinderID    *int64 `json:"binder_id,omitempty"`
	FlavorID    *int64 `json:"flavor_id,omitempty"`
	BandStyleID *int64 `json:"band_style_id,omitempty"`
	BoxTypeID   *int64 `json:"box_type_id,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
}

func (r *QuoteRequest) Validate() error {
	validator := validation.NewValidator()

	validator.Field("quantity", int64(r.Quantity)).
		Custom(func(v interface{}) *errors.AppError {
			if q, ok := v.(int64); ok && q < 0 {
				return errors.NewValidationFieldError("quantity", "quantity cannot be negative", errors.ErrCodeInvalidQuantity)
			}
			return nil
		})

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (r *QuoteRequest) ToSelection() Selection {
	return Selection{
		SizeID:      r.SizeID,
		BinderID:    r.BinderID,
		FlavorID:    r.FlavorID,
		BandStyleID: r.BandStyleID,
		BoxTypeID:   r.BoxTypeID,
		Quantity:    r.Quantity,
	}
}
