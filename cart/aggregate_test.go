package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"sewago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func fixedSource(products map[string]*models.Product) ProductSource {
	return func(_ context.Context, id string) (*models.Product, error) {
		p, ok := products[id]
		if !ok {
			return nil, errors.New("product not found")
		}
		return p, nil
	}
}

func at(hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
	}
}

func TestAggregateTotals(t *testing.T) {
	products := map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Home Cleaning", PricingModel: models.PricingFixed, BasePrice: f(500), Discount: f(10)},
		"p2": {ProductID: "p2", Name: "Plumbing", PricingModel: models.PricingPerHour, BasePrice: f(100), PricePerUnit: 50},
	}
	agg := &Aggregator{Products: fixedSource(products), Now: at(14, 0)}

	items := []models.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1, SelectedUnits: 3},
	}

	totals, priced, err := agg.Aggregate(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, priced, 2)

	// p1: 450 each discounted, 500 original; p2: 250 with no discount.
	assert.Equal(t, 450.0*2+250, totals.DiscountedTotal)
	assert.Equal(t, 500.0*2+250, totals.OriginalTotal)
	assert.Equal(t, 3, totals.TotalQty)
	assert.Equal(t, float64(StandardDeliveryCharge), totals.DeliveryCharge)
	assert.False(t, totals.LateNight)
	assert.Equal(t, totals.DiscountedTotal+totals.DeliveryCharge, totals.GrandTotal)
}

func TestDiscountedNeverExceedsOriginal(t *testing.T) {
	products := map[string]*models.Product{
		"a": {ProductID: "a", PricingModel: models.PricingPerUnit, BasePrice: f(80), PricePerUnit: 12.5, Discount: f(35)},
		"b": {ProductID: "b", PricingModel: models.PricingFixed, BasePrice: f(999.99)},
	}
	agg := &Aggregator{Products: fixedSource(products), Now: at(9, 30)}

	totals, _, err := agg.Aggregate(context.Background(), []models.CartItem{
		{ProductID: "a", Quantity: 4, SelectedUnits: 6},
		{ProductID: "b", Quantity: 1},
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, totals.DiscountedTotal, totals.OriginalTotal)
}

func TestLateNightSurcharge(t *testing.T) {
	products := map[string]*models.Product{
		"p1": {ProductID: "p1", PricingModel: models.PricingFixed, BasePrice: f(100)},
	}

	cases := []struct {
		hour, min int
		charge    float64
		lateNight bool
	}{
		{22, 59, StandardDeliveryCharge, false},
		{23, 0, LateNightDeliveryCharge, true},
		{23, 30, LateNightDeliveryCharge, true},
		{0, 10, StandardDeliveryCharge, false},
	}

	for _, tc := range cases {
		agg := &Aggregator{Products: fixedSource(products), Now: at(tc.hour, tc.min)}
		totals, _, err := agg.Aggregate(context.Background(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, tc.charge, totals.DeliveryCharge, "at %02d:%02d", tc.hour, tc.min)
		assert.Equal(t, tc.lateNight, totals.LateNight, "at %02d:%02d", tc.hour, tc.min)
	}
}

func TestQuantityDefaultsToOne(t *testing.T) {
	products := map[string]*models.Product{
		"p1": {ProductID: "p1", PricingModel: models.PricingFixed, BasePrice: f(100)},
	}
	agg := &Aggregator{Products: fixedSource(products), Now: at(10, 0)}

	totals, _, err := agg.Aggregate(context.Background(), []models.CartItem{{ProductID: "p1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, totals.TotalQty)
	assert.Equal(t, 100.0, totals.DiscountedTotal)
}

func TestUnknownProductFailsAggregation(t *testing.T) {
	agg := &Aggregator{Products: fixedSource(nil), Now: at(10, 0)}
	_, _, err := agg.Aggregate(context.Background(), []models.CartItem{{ProductID: "ghost", Quantity: 1}})
	assert.Error(t, err)
}

func TestEmptyCart(t *testing.T) {
	agg := &Aggregator{Products: fixedSource(nil), Now: at(10, 0)}
	totals, priced, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, priced)
	assert.Equal(t, 0, totals.TotalQty)
	assert.Equal(t, 0.0, totals.DiscountedTotal)
	// Surcharge still applies to the grand total line shown to the user.
	assert.Equal(t, float64(StandardDeliveryCharge), totals.GrandTotal)
}

func TestLivePricingReQuotes(t *testing.T) {
	price := f(100)
	products := map[string]*models.Product{
		"p1": {ProductID: "p1", PricingModel: models.PricingFixed, BasePrice: price},
	}
	agg := &Aggregator{Products: fixedSource(products), Now: at(10, 0)}
	items := []models.CartItem{{ProductID: "p1", Quantity: 1}}

	totals, _, err := agg.Aggregate(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 100.0, totals.DiscountedTotal)

	// Price changes between add-to-cart and checkout are intentional.
	*price = 150
	totals, _, err = agg.Aggregate(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 150.0, totals.DiscountedTotal)
}
