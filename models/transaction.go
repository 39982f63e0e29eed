package models

import "time"

// Transaction is the gateway-payment counterpart of an Order. It is created
// only after the gateway accepts the initiate call, and its Status is
// refreshed from the gateway on explicit status checks.
type Transaction struct {
	TransactionID   string           `json:"transactionId" bson:"transactionId"`
	UserID          string           `json:"userId" bson:"userId"`
	ProductRef      string           `json:"productRef" bson:"product_id"` // gateway order reference
	Amount          float64          `json:"amount" bson:"amount"`
	ProductDetails  []OrderedProduct `json:"productDetails" bson:"product_details"`
	TotalQty        int              `json:"totalQty" bson:"totalQty"`
	DeliveryAddress string           `json:"deliveryAddress" bson:"delivery_address"`
	Status          string           `json:"status" bson:"status"` // gateway-reported payment state
	OrderStatus     string           `json:"orderStatus" bson:"orderStatus"`
	Worker          string           `json:"worker,omitempty" bson:"worker,omitempty"`
	Revision        int              `json:"revision" bson:"revision"`
	PaymentURL      string           `json:"paymentUrl,omitempty" bson:"paymentUrl,omitempty"`
	IdempotencyKey  string           `json:"-" bson:"external_ref,omitempty"`
	CartCleared     bool             `json:"-" bson:"cartCleared"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`

	// Display-only fields, populated on reads
	User       *UserSummary   `json:"user,omitempty" bson:"-"`
	Address    *Address       `json:"address,omitempty" bson:"-"`
	WorkerInfo *WorkerContact `json:"workerDetails,omitempty" bson:"-"`
}
