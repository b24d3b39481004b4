package pricing

import (
	catalogDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/catalog"
	orderDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/order"
)

// Selection carries at most one component reference per kind plus a
// quantity. A selection with no components at all is valid and prices to the
// base price alone.
type Selection struct {
	SizeID      *int64
	BinderID    *int64
	FlavorID    *int64
	BandStyleID *int64
	BoxTypeID   *int64
	Quantity    int
}

// components pairs each chosen id with its kind, in a stable order.
func (s Selection) components() []struct {
	Kind catalogDatamodel.Kind
	ID   *int64
} {
	return []struct {
		Kind catalogDatamodel.Kind
		ID   *int64
	}{
		{catalogDatamodel.KindSize, s.SizeID},
		{catalogDatamodel.KindBinder, s.BinderID},
		{catalogDatamodel.KindFlavor, s.FlavorID},
		{catalogDatamodel.KindBandStyle, s.BandStyleID},
		{catalogDatamodel.KindBoxType, s.BoxTypeID},
	}
}

// SelectionFromOrder rebuilds the selection from an order's persisted
// columns. Checkout prices from this, never from client-echoed amounts.
func SelectionFromOrder(o *orderDatamodel.Order) Selection {
	return Selection{
		SizeID:      o.SizeID,
		BinderID:    o.BinderID,
		FlavorID:    o.FlavorID,
		BandStyleID: o.BandStyleID,
		BoxTypeID:   o.BoxTypeID,
		Quantity:    o.Quantity,
	}
}

// Breakdown reports money rounded to 2 decimals only at the reported points
// (tax and total), never before summation.
type Breakdown struct {
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
}

// Config is the pricing configuration resolved from store settings for one
// computation. A missing setting fails the computation; there are no
// fallback constants.
type Config struct {
	BasePrice    float64
	TaxRate      float64
	ShippingCost float64
}

// CatalogAPI is the read-only slice of the catalog the engine needs.
type CatalogAPI interface {
	PriceContribution(kind catalogDatamodel.Kind, id int64) (float64, error)
	SettingFloat(key string) (float64, error)
}
