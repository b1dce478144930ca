package catalog

import "github.com/shopspring/decimal"

// Tier is the display classification derived from a product's price.
type Tier string

const (
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
)

// DefaultPremiumThreshold is the price above which products are labelled premium
// when no threshold is configured.
var DefaultPremiumThreshold = decimal.NewFromInt(500)

// PricePolicy classifies products by price. The threshold is configuration,
// not a business rule of the catalog API.
type PricePolicy struct {
	PremiumThreshold decimal.Decimal
}

// Tier returns TierPremium when the price is strictly above the threshold.
func (p PricePolicy) Tier(product Product) Tier {
	if product.Price.GreaterThan(p.PremiumThreshold) {
		return TierPremium
	}
	return TierStandard
}
