package cart

import (
	"context"
	"time"

	"sewago/db"
	"sewago/models"
	"sewago/pricing"

	"go.mongodb.org/mongo-driver/bson"
)

// Delivery surcharge: flat rate during normal hours, doubled from 23:00 until
// midnight rollover.
const (
	StandardDeliveryCharge  = 60
	LateNightDeliveryCharge = 120
	lateNightHour           = 23
)

// ProductSource resolves a product id to its current record. The default
// source reads the live catalog, so cart totals re-quote on every display;
// tests (or a future frozen-price mode) substitute their own.
type ProductSource func(ctx context.Context, productID string) (*models.Product, error)

func liveProductSource(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PricedItem is a cart line with its current quote attached.
type PricedItem struct {
	models.CartItem
	ProductName string        `json:"productName"`
	Image       []string      `json:"image,omitempty"`
	UnitLabel   string        `json:"unitLabel,omitempty"`
	Quote       pricing.Quote `json:"quote"`
}

// Totals is the cart-level aggregate shown at checkout.
type Totals struct {
	OriginalTotal   float64 `json:"originalTotal"`
	DiscountedTotal float64 `json:"discountedTotal"`
	TotalQty        int     `json:"totalQty"`
	DeliveryCharge  float64 `json:"deliveryCharge"`
	GrandTotal      float64 `json:"grandTotal"`
	LateNight       bool    `json:"lateNight"`
}

// Aggregator turns cart lines into totals. Now is injectable because the
// delivery surcharge depends on wall-clock time at display, not order time.
type Aggregator struct {
	Products ProductSource
	Now      func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{Products: liveProductSource, Now: time.Now}
}

// DeliveryCharge evaluates the time-of-day surcharge at the given moment.
func DeliveryCharge(at time.Time) (float64, bool) {
	if at.Hour() >= lateNightHour {
		return LateNightDeliveryCharge, true
	}
	return StandardDeliveryCharge, false
}

// Aggregate prices every line against the current product records and sums
// the cart. Unknown products fail the whole aggregation; a cart pointing at a
// deleted product has to surface, not silently under-charge.
func (a *Aggregator) Aggregate(ctx context.Context, items []models.CartItem) (Totals, []PricedItem, error) {
	var totals Totals
	priced := make([]PricedItem, 0, len(items))

	for _, item := range items {
		product, err := a.Products(ctx, item.ProductID)
		if err != nil {
			return Totals{}, nil, err
		}

		sel := pricing.Selection{Units: item.SelectedUnits, AddOnIDs: item.SelectedAddOns}
		quote := pricing.Compute(product, sel)

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		totals.DiscountedTotal += quote.Final * float64(qty)
		totals.OriginalTotal += quote.PreDiscount * float64(qty)
		totals.TotalQty += qty

		priced = append(priced, PricedItem{
			CartItem:    item,
			ProductName: product.Name,
			Image:       product.Image,
			UnitLabel:   pricing.UnitLabel(product),
			Quote:       quote,
		})
	}

	totals.DeliveryCharge, totals.LateNight = DeliveryCharge(a.Now())
	totals.GrandTotal = totals.DiscountedTotal + totals.DeliveryCharge

	return totals, priced, nil
}
