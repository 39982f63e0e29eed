package pricing

import (
	"testing"

	"sewago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestSettleFixedWithDiscount(t *testing.T) {
	p := &models.Product{PricingModel: models.PricingFixed, BasePrice: f(500), Discount: f(10)}
	assert.Equal(t, 450.0, Settle(p, Selection{}))
}

func TestSettlePerHour(t *testing.T) {
	p := &models.Product{PricingModel: models.PricingPerHour, BasePrice: f(100), PricePerUnit: 50}
	assert.Equal(t, 250.0, Settle(p, Selection{Units: 3}))
}

func TestSettleAddOnsUnknownIgnored(t *testing.T) {
	p := &models.Product{
		PricingModel: models.PricingFixed,
		BasePrice:    f(100),
		AddOns:       []models.AddOn{{ID: "a1", Name: "deep clean", Price: 20}},
	}
	assert.Equal(t, 120.0, Settle(p, Selection{AddOnIDs: []string{"a1", "unknown"}}))
}

func TestFixedIgnoresUnits(t *testing.T) {
	p := &models.Product{PricingModel: models.PricingFixed, BasePrice: f(500), PricePerUnit: 50}
	for _, units := range []int{0, 1, 3, 100} {
		assert.Equal(t, 500.0, Settle(p, Selection{Units: units}))
	}
}

func TestNonFixedLinearInUnits(t *testing.T) {
	for _, model := range []string{models.PricingPerUnit, models.PricingPerHour, models.PricingAreaBased} {
		p := &models.Product{PricingModel: model, BasePrice: f(40), PricePerUnit: 25}
		for _, units := range []int{1, 2, 7, 50} {
			assert.Equal(t, 40+25*float64(units), Settle(p, Selection{Units: units}), model)
		}
	}
}

func TestUnitsFloorAtMinUnits(t *testing.T) {
	p := &models.Product{PricingModel: models.PricingPerUnit, BasePrice: f(0), PricePerUnit: 10, MinUnits: 5}

	// Below the minimum the product still charges MinUnits.
	assert.Equal(t, 50.0, Settle(p, Selection{Units: 2}))
	assert.Equal(t, 50.0, Settle(p, Selection{}))
	assert.Equal(t, 70.0, Settle(p, Selection{Units: 7}))
}

func TestMissingFieldsDefaultToZero(t *testing.T) {
	// No base price, no per-unit rate, no discount: everything settles to 0.
	p := &models.Product{PricingModel: models.PricingPerUnit}
	assert.Equal(t, 0.0, Settle(p, Selection{Units: 4}))
}

func TestDiscountLinear(t *testing.T) {
	for _, d := range []float64{0, 10, 25, 50, 100} {
		p := &models.Product{PricingModel: models.PricingFixed, BasePrice: f(200), Discount: f(d)}
		assert.InDelta(t, 200*(100-d)/100, Settle(p, Selection{}), 0.001)
	}
}

func TestSettleDeterministic(t *testing.T) {
	p := &models.Product{
		PricingModel: models.PricingAreaBased,
		BasePrice:    f(99.99),
		PricePerUnit: 3.33,
		Discount:     f(7),
		AddOns:       []models.AddOn{{ID: "x", Price: 15.5}},
	}
	sel := Selection{Units: 12, AddOnIDs: []string{"x"}}
	first := Settle(p, sel)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Settle(p, sel))
	}
}

func TestRoundingToPaisa(t *testing.T) {
	p := &models.Product{PricingModel: models.PricingFixed, BasePrice: f(99.99), Discount: f(33)}
	got := Settle(p, Selection{})
	// 99.99 * 0.67 = 66.9933 -> 66.99
	assert.Equal(t, 66.99, got)
}

func TestComputeBreakdown(t *testing.T) {
	p := &models.Product{
		PricingModel: models.PricingPerHour,
		BasePrice:    f(100),
		PricePerUnit: 50,
		Discount:     f(10),
		AddOns:       []models.AddOn{{ID: "a1", Price: 30}},
	}
	q := Compute(p, Selection{Units: 2, AddOnIDs: []string{"a1"}})
	require.Equal(t, 2, q.Units)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 30.0, q.AddOnTotal)
	assert.Equal(t, 230.0, q.PreDiscount)
	assert.Equal(t, 207.0, q.Final)
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "seat", UnitLabel(&models.Product{PricingModel: models.PricingPerUnit, UnitName: "seat"}))
	assert.Equal(t, "unit", UnitLabel(&models.Product{PricingModel: models.PricingPerUnit}))
	assert.Equal(t, "hour", UnitLabel(&models.Product{PricingModel: models.PricingPerHour}))
	assert.Equal(t, "sq ft", UnitLabel(&models.Product{PricingModel: models.PricingAreaBased}))
	assert.Equal(t, "", UnitLabel(&models.Product{PricingModel: models.PricingFixed}))
}
