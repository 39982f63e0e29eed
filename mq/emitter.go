package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"sewago/rdx"
)

const orderEventsChannel = "order-events"

// Event kinds published on the order channel.
const (
	KindOrderCreated  = "order_created"
	KindStatusUpdated = "status_updated"
	KindPaymentUpdate = "payment_update"
)

// OrderEvent is the payload broadcast whenever an order or transaction moves.
type OrderEvent struct {
	Kind          string    `json:"kind"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	OrderStatus   string    `json:"orderStatus,omitempty"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	Worker        string    `json:"worker,omitempty"`
	At            time.Time `json:"at"`
}

// EmitOrderEvent publishes to Redis pub/sub; failures are logged, never fatal,
// because live updates are best-effort alongside the persisted record.
func EmitOrderEvent(evt OrderEvent) {
	evt.At = time.Now()

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[EmitOrderEvent] marshal error: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), orderEventsChannel, data).Err(); err != nil {
		log.Printf("[EmitOrderEvent] publish error: %v", err)
	}
}

// SubscribeOrderEvents hands decoded events to fn until ctx is done.
func SubscribeOrderEvents(ctx context.Context, fn func(OrderEvent)) {
	sub := rdx.Conn.Subscribe(ctx, orderEventsChannel)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt OrderEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("[SubscribeOrderEvents] unmarshal error: %v", err)
					continue
				}
				fn(evt)
			}
		}
	}()
}
