package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"sewago/cart"
	"sewago/db"
	"sewago/models"
	"sewago/mq"
	"sewago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type codCheckoutRequest struct {
	AddressID string `json:"addressId"`
}

// Snapshot builds the point-in-time product details stored on an order.
func Snapshot(priced []cart.PricedItem) []models.OrderedProduct {
	products := make([]models.OrderedProduct, 0, len(priced))
	for _, item := range priced {
		products = append(products, models.OrderedProduct{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Unit:      item.UnitLabel,
		})
	}
	return products
}

// CashOnDelivery checks the user's cart out on the cash path: the totals are
// re-settled server side, the order snapshot is persisted, then the cart is
// cleared. If the cart-clear fails the order is deleted again so the two
// writes act as one logical unit.
func CashOnDelivery(agg *cart.Aggregator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req codCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}
		if req.AddressID == "" {
			http.Error(w, "addressId is required", http.StatusBadRequest)
			return
		}

		items, err := cart.ItemsForUser(ctx, userID)
		if err != nil {
			http.Error(w, "Could not load cart", http.StatusInternalServerError)
			return
		}
		if len(items) == 0 {
			http.Error(w, "Cart is empty", http.StatusBadRequest)
			return
		}

		totals, priced, err := agg.Aggregate(ctx, items)
		if err != nil {
			log.Println("CashOnDelivery aggregate error:", err)
			http.Error(w, "Could not price cart", http.StatusInternalServerError)
			return
		}

		order := models.Order{
			OrderID:         "ORD-" + utils.GetUUID(),
			UserID:          userID,
			ProductDetails:  Snapshot(priced),
			PaymentID:       "",
			PaymentStatus:   PaymentStatusCOD,
			DeliveryAddress: req.AddressID,
			TotalAmt:        totals.GrandTotal,
			TotalQty:        totals.TotalQty,
			OrderStatus:     StatusPending,
			Worker:          "",
			Revision:        1,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}

		if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
			log.Println("CashOnDelivery insert error:", err)
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
			return
		}

		if err := cart.ClearUserCart(ctx, userID); err != nil {
			// Compensate: an order without a cleared cart would double-charge
			// on the next checkout.
			if _, delErr := db.OrderCollection.DeleteOne(ctx, bson.M{"orderId": order.OrderID}); delErr != nil {
				log.Printf("CashOnDelivery compensation failed for %s: %v", order.OrderID, delErr)
			}
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
			return
		}

		mq.EmitOrderEvent(mq.OrderEvent{
			Kind:        mq.KindOrderCreated,
			OrderID:     order.OrderID,
			UserID:      userID,
			OrderStatus: order.OrderStatus,
		})

		utils.SendResponse(w, http.StatusOK, order, "Your Order is placed!", nil)
	}
}

type statusUpdateRequest struct {
	OrderStatus      string `json:"orderStatus"`
	ExpectedRevision int    `json:"expectedRevision"`
}

// UpdateOrderStatus assigns the acting worker to the order and moves its
// status. Only principals holding the worker role may call it; the update is
// a compare-and-swap on the revision field so concurrent writers cannot
// silently overwrite each other.
func UpdateOrderStatus(flow *StatusFlow) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orderID := ps.ByName("orderid")
		workerID := utils.GetUserIDFromRequest(r)
		if workerID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var worker models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userId": workerID}).Decode(&worker); err != nil || !worker.HasRole(models.RoleWorker) {
			http.Error(w, "Only workers can accept orders", http.StatusForbidden)
			return
		}

		var req statusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderStatus == "" {
			http.Error(w, "orderStatus is required", http.StatusBadRequest)
			return
		}

		var current models.Order
		if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load order", http.StatusInternalServerError)
			return
		}

		if !flow.CanTransition(current.OrderStatus, req.OrderStatus) {
			http.Error(w, "Illegal status transition", http.StatusUnprocessableEntity)
			return
		}

		expected := req.ExpectedRevision
		if expected == 0 {
			expected = current.Revision
		}

		res := db.OrderCollection.FindOneAndUpdate(ctx,
			bson.M{"orderId": orderID, "revision": expected},
			bson.M{
				"$set": bson.M{
					"orderStatus": req.OrderStatus,
					"worker":      workerID,
					"updatedAt":   time.Now(),
				},
				"$inc": bson.M{"revision": 1},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var updated models.Order
		if err := res.Decode(&updated); err != nil {
			if err == mongo.ErrNoDocuments {
				// The order exists but the revision moved underneath us.
				http.Error(w, "Order was modified concurrently, retry", http.StatusConflict)
				return
			}
			http.Error(w, "Failed to update order", http.StatusInternalServerError)
			return
		}

		updated.WorkerInfo = LookupWorkerContact(ctx, updated.Worker)

		mq.EmitOrderEvent(mq.OrderEvent{
			Kind:        mq.KindStatusUpdated,
			OrderID:     updated.OrderID,
			UserID:      updated.UserID,
			OrderStatus: updated.OrderStatus,
			Worker:      updated.Worker,
		})

		utils.SendResponse(w, http.StatusOK, updated, "Order status updated successfully!", nil)
	}
}

func populate(ctx context.Context, list []models.Order) {
	for i := range list {
		list[i].User = LookupUserSummary(ctx, list[i].UserID)
		list[i].Address = LookupAddress(ctx, list[i].DeliveryAddress)
		list[i].WorkerInfo = LookupWorkerContact(ctx, list[i].Worker)
	}
}

func findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	populate(ctx, list)
	return list, nil
}

// GetUserOrders lists the caller's orders, newest first.
func GetUserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := findOrders(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("GetUserOrders error:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, list, "User orders fetched successfully!", nil)
}

// GetAllOrders lists every order for worker and admin dashboards.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := findOrders(ctx, bson.M{})
	if err != nil {
		log.Println("GetAllOrders error:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, list, "All Data Fetched", nil)
}
