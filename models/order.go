package models

import "time"

// OrderedProduct is a point-in-time snapshot of a product on an order. Orders
// never reference live product records.
type OrderedProduct struct {
	ProductID string   `json:"productId" bson:"productId"`
	Name      string   `json:"name" bson:"name"`
	Image     []string `json:"image" bson:"image"`
	Quantity  int      `json:"quantity" bson:"quantity"`
	Unit      string   `json:"unit,omitempty" bson:"unit,omitempty"`
}

type Order struct {
	OrderID         string           `json:"orderId" bson:"orderId"`
	UserID          string           `json:"userId" bson:"userId"`
	ProductDetails  []OrderedProduct `json:"productDetails" bson:"product_details"`
	PaymentID       string           `json:"paymentId" bson:"paymentId"` // empty for cash on delivery
	PaymentStatus   string           `json:"paymentStatus" bson:"payment_status"`
	DeliveryAddress string           `json:"deliveryAddress" bson:"delivery_address"`
	TotalAmt        float64          `json:"totalAmt" bson:"totalAmt"`
	TotalQty        int              `json:"totalQty" bson:"totalQty"`
	OrderStatus     string           `json:"orderStatus" bson:"orderStatus"`
	Worker          string           `json:"worker,omitempty" bson:"worker,omitempty"` // set only by a worker transition
	Revision        int              `json:"revision" bson:"revision"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`

	// Display-only fields, populated on reads
	User       *UserSummary   `json:"user,omitempty" bson:"-"`
	Address    *Address       `json:"address,omitempty" bson:"-"`
	WorkerInfo *WorkerContact `json:"workerDetails,omitempty" bson:"-"`
}

type WorkerContact struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
	Mobile string `json:"mobile" bson:"mobile"`
}
