package models

import "time"

// CartItem is one line in a user's cart. SelectedUnits only matters for
// non-fixed pricing models; Quantity counts how many of this line item are in
// the cart and is independent of SelectedUnits.
type CartItem struct {
	ID             string    `json:"id" bson:"id"`
	UserID         string    `json:"userId" bson:"userId"`
	ProductID      string    `json:"productId" bson:"productId"`
	SelectedUnits  int       `json:"selectedUnits,omitempty" bson:"selectedUnits,omitempty"`
	SelectedAddOns []string  `json:"selectedAddOns,omitempty" bson:"selectedAddOns,omitempty"`
	Quantity       int       `json:"quantity" bson:"quantity"`
	AddedAt        time.Time `json:"addedAt" bson:"addedAt"`
}
