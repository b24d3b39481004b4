package order

import (
	errors "github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/core/common/validation"
	orderDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/order"
	"github.com/cigarcraft/cigar-commerce/internal/pricing"
)

type CreateOrderDTO struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	SizeID        *int64 `json:"size_id,omitempty"`
	BinderID      *int64 `json:"binder_id,omitempty"`
	FlavorID      *int64 `json:"flavor_id,omitempty"`
	BandStyleID   *int64 `json:"band_style_id,omitempty"`
	BoxTypeID     *int64 `json:"box_type_id,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
}

func (d *CreateOrderDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("customer_name", d.CustomerName).Required().MaxLength(120)
	validator.Field("customer_email", d.CustomerEmail).Required().MaxLength(254)
	validator.Field("quantity", int64(d.Quantity)).
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

func (d *CreateOrderDTO) ToSelection() pricing.Selection {
	return pricing.Selection{
		SizeID:      d.SizeID,
		BinderID:    d.BinderID,
		FlavorID:    d.FlavorID,
		BandStyleID: d.BandStyleID,
		BoxTypeID:   d.BoxTypeID,
		Quantity:    d.Quantity,
	}
}

type OrderView struct {
	ID            int64    `json:"id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	SizeID        *int64   `json:"size_id,omitempty"`
	BinderID      *int64   `json:"binder_id,omitempty"`
	FlavorID      *int64   `json:"flavor_id,omitempty"`
	BandStyleID   *int64   `json:"band_style_id,omitempty"`
	BoxTypeID     *int64   `json:"box_type_id,omitempty"`
	Quantity      int      `json:"quantity"`
	Status        string   `json:"status"`
	QuotedTotal   *float64 `json:"quoted_total,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func ToView(o *orderDatamodel.Order) OrderView {
	return OrderView{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		SizeID:        o.SizeID,
		BinderID:      o.BinderID,
		FlavorID:      o.FlavorID,
		BandStyleID:   o.BandStyleID,
		BoxTypeID:     o.BoxTypeID,
		Quantity:      o.Quantity,
		Status:        o.Status,
		QuotedTotal:   o.QuotedTotal,
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
