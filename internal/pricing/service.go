package pricing

import (
	"log/slog"
	"math"

	catalogDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/catalog"
)

// Engine composes a final price from a component selection. It has no state
// beyond its collaborators; every quote resolves the pricing settings fresh
// so catalog edits take effect without a restart.
type Engine struct {
	catalog CatalogAPI
	logger  *slog.Logger
}

func NewEngine(catalog CatalogAPI, logger *slog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		logger:  logger,
	}
}

// Quote resolves the pricing configuration and computes the breakdown for
// one selection.
func (e *Engine) Quote(selection Selection) (*Breakdown, error) {
	cfg, err := e.LoadConfig()
	if err != nil {
		return nil, err
	}
	return e.ComputePrice(selection, cfg)
}

// LoadConfig resolves base price, tax rate and shipping cost from store
// settings. Any missing or non-numeric setting fails the whole quote.
func (e *Engine) LoadConfig() (Config, error) {
	basePrice, err := e.catalog.SettingFloat(catalogDatamodel.SettingBasePrice)
	if err != nil {
		return Config{}, err
	}
	taxRate, err := e.catalog.SettingFloat(catalogDatamodel.SettingTaxRate)
	if err != nil {
		return Config{}, err
	}
	shippingCost, err := e.catalog.SettingFloat(catalogDatamodel.SettingShippingCost)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BasePrice:    basePrice,
		TaxRate:      taxRate,
		ShippingCost: shippingCost,
	}, nil
}

// ComputePrice is a pure function over the selection, the config and the
// catalog lookups it performs. Unknown component ids reject the quote.
func (e *Engine) ComputePrice(selection Selection, cfg Config) (*Breakdown, error) {
	unitPrice := cfg.BasePrice
	for _, c := range selection.components() {
		if c.ID == nil {
			continue
		}
		contribution, err := e.catalog.PriceContribution(c.Kind, *c.ID)
		if err != nil {
			return nil, err
		}
		unitPrice += contribution
	}

	quantity := selection.Quantity
	if quantity < 1 {
		quantity = 1
	}

	subtotal := unitPrice * float64(quantity)
	tax := round2(subtotal * cfg.TaxRate)
	total := round2(subtotal + tax + cfg.ShippingCost)

	e.logger.Debug("price computed",
		"unit_price", unitPrice,
		"quantity", quantity,
		"subtotal", subtotal,
		"tax", tax,
		"shipping", cfg.ShippingCost,
		"total", total)

	return &Breakdown{
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  cfg.ShippingCost,
		Total:     total,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
