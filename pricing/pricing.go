package pricing

import (
	"math"

	"sewago/models"
)

// Selection is what the customer picked for a single product.
type Selection struct {
	Units    int      `json:"units"`
	AddOnIDs []string `json:"addOnIds"`
}

// Quote breaks a settled price down for display. Final is the only field the
// checkout path persists; the rest feed the cart and preview UIs.
type Quote struct {
	Units       int     `json:"units"`
	Subtotal    float64 `json:"subtotal"`
	AddOnTotal  float64 `json:"addOnTotal"`
	PreDiscount float64 `json:"preDiscount"`
	Discount    float64 `json:"discount"`
	Final       float64 `json:"final"`
}

// Round to the rupee's minor unit (paisa), half away from zero.
func roundPaisa(v float64) float64 {
	return math.Round(v*100) / 100
}

// chargeableUnits floors the selection at the product's minimum. The floor
// lives here, not in the handlers, so preview and settlement cannot disagree.
func chargeableUnits(p *models.Product, sel Selection) int {
	units := sel.Units
	if units < 1 {
		units = 1
	}
	if p.MinUnits > units {
		units = p.MinUnits
	}
	return units
}

// Compute settles a product against a selection. Pure: missing numeric fields
// count as zero, unknown add-on ids contribute nothing, and identical inputs
// always yield identical output.
func Compute(p *models.Product, sel Selection) Quote {
	var base float64
	if p.BasePrice != nil {
		base = *p.BasePrice
	}

	q := Quote{Units: 1, Subtotal: base}
	if p.PricingModel != models.PricingFixed {
		// per_unit, per_hour and area_based all price identically; only the
		// unit label differs.
		q.Units = chargeableUnits(p, sel)
		q.Subtotal = base + p.PricePerUnit*float64(q.Units)
	}

	for _, id := range sel.AddOnIDs {
		for _, addOn := range p.AddOns {
			if addOn.ID == id {
				q.AddOnTotal += addOn.Price
				break
			}
		}
	}

	q.PreDiscount = roundPaisa(q.Subtotal + q.AddOnTotal)

	if p.Discount != nil {
		q.Discount = *p.Discount
	}
	q.Final = roundPaisa(q.PreDiscount - q.PreDiscount*q.Discount/100)

	return q
}

// Settle returns the final price for a product and selection.
func Settle(p *models.Product, sel Selection) float64 {
	return Compute(p, sel).Final
}

// SettleUndiscounted prices the selection with the discount forced to zero,
// used for the "original total" line in the cart.
func SettleUndiscounted(p *models.Product, sel Selection) float64 {
	return Compute(p, sel).PreDiscount
}

// UnitLabel returns the display label for the product's pricing model.
func UnitLabel(p *models.Product) string {
	switch p.PricingModel {
	case models.PricingPerUnit:
		if p.UnitName != "" {
			return p.UnitName
		}
		return "unit"
	case models.PricingPerHour:
		return "hour"
	case models.PricingAreaBased:
		return "sq ft"
	default:
		return ""
	}
}
