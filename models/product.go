package models

import "time"

// Pricing models supported by the catalog. All non-fixed models share the same
// arithmetic; they differ only in the unit label shown to the customer.
const (
	PricingFixed     = "fixed"
	PricingPerUnit   = "per_unit"
	PricingPerHour   = "per_hour"
	PricingAreaBased = "area_based"
)

type AddOn struct {
	ID    string  `json:"id" bson:"id"`
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type Product struct {
	ProductID    string    `json:"productId" bson:"productId"`
	Name         string    `json:"name" bson:"name"`
	Image        []string  `json:"image" bson:"image"`
	PricingModel string    `json:"pricingModel" bson:"pricingModel"`
	UnitName     string    `json:"unitName,omitempty" bson:"unitName,omitempty"` // e.g. "seat", "sqft"
	BasePrice    *float64  `json:"basePrice" bson:"basePrice"`
	PricePerUnit float64   `json:"pricePerUnit,omitempty" bson:"pricePerUnit,omitempty"`
	MinUnits     int       `json:"minUnits,omitempty" bson:"minUnits,omitempty"`
	AddOns       []AddOn   `json:"addOns,omitempty" bson:"addOns,omitempty"`
	Discount     *float64  `json:"discount" bson:"discount"` // percentage 0-100
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Publish      bool      `json:"publish" bson:"publish"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
