package catalog

import (
	"time"
)

// Kind enumerates the five customizable cigar attributes.
type Kind string

const (
	KindSize      Kind = "size"
	KindBinder    Kind = "binder"
	KindFlavor    Kind = "flavor"
	KindBandStyle Kind = "band_style"
	KindBoxType   Kind = "box_type"
)

// Kinds lists every component kind in selection order.
var Kinds = []Kind{KindSize, KindBinder, KindFlavor, KindBandStyle, KindBoxType}

func (k Kind) Valid() bool {
	switch k {
	case KindSize, KindBinder, KindFlavor, KindBandStyle, KindBoxType:
		return true
	}
	return false
}

// Component is one selectable option for a component kind. Sizes and box
// types store an absolute base price, binders, flavors and band styles store
// a signed modifier; pricing sums the contribution identically either way.
type Component struct {
	ID                int64     `gorm:"primaryKey"`
	Kind              Kind      `gorm:"column:kind;not null;index:idx_components_kind"`
	Name              string    `gorm:"column:name;not null"`
	Description       *string   `gorm:"column:description"`
	PriceContribution float64   `gorm:"column:price_contribution;not null"`
	IsActive          bool      `gorm:"column:is_active;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `gorm:"column:updated_at;default:now()"`
}

func (Component) TableName() string {
	return "components"
}

// Setting is a store-level configuration row keyed by name.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys the pricing engine resolves at construction.
const (
	SettingBasePrice    = "pricing.base_price"
	SettingTaxRate      = "pricing.tax_rate"
	SettingShippingCost = "pricing.shipping_cost"
)
